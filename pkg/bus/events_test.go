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

package bus_test

import (
	"os"
	"path/filepath"

	"github.com/mudler/go-pluggable"
	"github.com/mudler/ipk/pkg/api/core/types"
	. "github.com/mudler/ipk/pkg/bus"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bus", func() {
	var tmpdir string

	BeforeEach(func() {
		var err error
		tmpdir, err = os.MkdirTemp("", "bus")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpdir)
	})

	It("delivers package events to plugins", func() {
		out := filepath.Join(tmpdir, "received")
		plugin := filepath.Join(tmpdir, "ipk-recorder")
		script := "#!/bin/sh\necho \"$1\" >> " + out + "\necho '{ \"state\": \"ok\" }'\n"
		Expect(os.WriteFile(plugin, []byte(script), 0755)).To(Succeed())

		b := NewBus()
		b.Manager.Plugins = []pluggable.Plugin{{Name: "recorder", Executable: plugin}}
		b.Manager.Register()

		err := b.PublishAction(types.Action{
			Kind:     types.ActionUpgrade,
			Package:  &types.PackageRecord{Name: "a", Version: "2.0"},
			Previous: "1.0",
		})
		Expect(err).ToNot(HaveOccurred())
		err = b.PublishAction(types.Action{
			Kind:    types.ActionRemove,
			Package: &types.PackageRecord{Name: "c", Version: "1.0"},
		})
		Expect(err).ToNot(HaveOccurred())

		Expect(fileHelper.Read(out)).To(Equal("package.upgrade\npackage.remove\n"))
	})

	It("knows every event", func() {
		Expect(NewBus().Manager.Events).To(ConsistOf(
			EventPackageInstall,
			EventPackageUpgrade,
			EventPackageRemove,
			EventIndexUpdate,
		))
	})
})
