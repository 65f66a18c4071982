// Copyright © 2022 Ettore Di Giacinto <mudler@mocaccino.org>
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <http://www.gnu.org/licenses/>.


package installer_test

import (
	"time"

	"github.com/mudler/ipk/pkg/api/core/types"
	. "github.com/mudler/ipk/pkg/installer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewTransaction", func() {
	now := time.Unix(1600000000, 0)

	It("maps plan actions to store writes in order", func() {
		installed := types.InstalledSet{
			"b": {Name: "b", Version: "1.0", Hold: true, AutoInstalled: true},
			"c": {Name: "c", Version: "1.0"},
		}
		plan := &types.Plan{Actions: []types.Action{
			{Kind: types.ActionUpgrade, Package: &types.PackageRecord{Name: "b", Version: "2.0", Provides: []string{"z"}}, Previous: "1.0", Auto: true},
			{Kind: types.ActionInstall, Package: &types.PackageRecord{Name: "a", Version: "2.0"}},
			{Kind: types.ActionRemove, Package: &types.PackageRecord{Name: "c", Version: "1.0"}},
		}}

		tx := NewTransaction(plan, installed, now)
		Expect(tx.Ops).To(HaveLen(3))

		Expect(tx.Ops[0].Kind).To(Equal(types.TxPut))
		Expect(tx.Ops[0].Package.Version).To(Equal("2.0"))
		Expect(tx.Ops[0].Package.Provides).To(Equal([]string{"z"}))
		Expect(tx.Ops[0].Package.Hold).To(BeTrue())
		Expect(tx.Ops[0].Package.AutoInstalled).To(BeTrue())
		Expect(tx.Ops[0].Package.InstalledTime).To(Equal(int64(1600000000)))

		Expect(tx.Ops[1].Kind).To(Equal(types.TxPut))
		Expect(tx.Ops[1].Package.Hold).To(BeFalse())
		Expect(tx.Ops[1].Package.AutoInstalled).To(BeFalse())

		Expect(tx.Ops[2].Kind).To(Equal(types.TxDelete))
		Expect(tx.Ops[2].Package.Name).To(Equal("c"))
	})

	It("is empty for an empty plan", func() {
		Expect(NewTransaction(nil, nil, now).Empty()).To(BeTrue())
		Expect(NewTransaction(&types.Plan{}, types.InstalledSet{}, now).Empty()).To(BeTrue())
	})
})
