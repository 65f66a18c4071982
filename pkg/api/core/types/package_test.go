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

package types_test

import (
	"github.com/mudler/ipk/pkg/api/core/types"
	version "github.com/mudler/ipk/pkg/versioner"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Package", func() {
	v := version.DefaultVersioner()

	b2 := &types.PackageRecord{Name: "b", Version: "2.0", Provides: []string{"z"}}

	Context("Matching", func() {
		It("matches literally and through provides", func() {
			Expect(b2.Matches("b")).To(BeTrue())
			Expect(b2.Matches("z")).To(BeTrue())
			Expect(b2.Matches("c")).To(BeFalse())
		})

		It("applies the version restriction to providers too", func() {
			Expect(b2.Satisfies(version.Constraint{Name: "z"}, v)).To(BeTrue())
			Expect(b2.Satisfies(version.Constraint{Name: "z", Relation: version.RelationGreaterEqual, Version: "2.0"}, v)).To(BeTrue())
			Expect(b2.Satisfies(version.Constraint{Name: "z", Relation: version.RelationLess, Version: "2.0"}, v)).To(BeFalse())
		})
	})

	Context("Copies", func() {
		It("clones without sharing slices", func() {
			a := &types.PackageRecord{Name: "a", Version: "1.0", Depends: []version.Constraint{{Name: "b"}}}
			c := a.Clone()
			Expect(c).To(Equal(a))
			c.Depends[0].Name = "x"
			Expect(a.Depends[0].Name).To(Equal("b"))
		})

		It("round-trips installed entries", func() {
			i := types.NewInstalledPackage(b2)
			Expect(i.Name).To(Equal("b"))
			Expect(i.Version).To(Equal("2.0"))
			Expect(i.Provides).To(Equal([]string{"z"}))
			Expect(i.Record().ID()).To(Equal("b@2.0"))
			Expect(i.Flags()).To(Equal("install user"))
			i.Hold = true
			i.AutoInstalled = true
			Expect(i.Flags()).To(Equal("hold auto"))
		})
	})

	Context("InstalledSet", func() {
		set := types.InstalledSet{
			"b": types.NewInstalledPackage(b2),
			"a": types.NewInstalledPackage(&types.PackageRecord{Name: "a", Version: "1.0"}),
			"z": types.NewInstalledPackage(&types.PackageRecord{Name: "z", Version: "0.1"}),
		}

		It("lists names in order", func() {
			Expect(set.Names()).To(Equal([]string{"a", "b", "z"}))
		})

		It("finds providers, literal first", func() {
			providers := set.Providers("z")
			Expect(providers).To(HaveLen(2))
			Expect(providers[0].Name).To(Equal("z"))
			Expect(providers[1].Name).To(Equal("b"))
		})

		It("checks satisfaction", func() {
			Expect(set.Satisfied(version.Constraint{Name: "z", Relation: version.RelationEqual, Version: "2.0"}, v)).To(BeTrue())
			Expect(set.Satisfied(version.Constraint{Name: "a", Relation: version.RelationEqual, Version: "2.0"}, v)).To(BeFalse())
		})
	})

	Context("Plan", func() {
		It("describes itself", func() {
			p := &types.Plan{}
			Expect(p.Empty()).To(BeTrue())
			Expect(p.String()).To(Equal("Nothing to do."))

			p.Actions = append(p.Actions,
				types.Action{Kind: types.ActionUpgrade, Package: b2, Previous: "1.0"},
				types.Action{Kind: types.ActionInstall, Package: &types.PackageRecord{Name: "a", Version: "2.0"}},
			)
			Expect(p.Names()).To(Equal([]string{"b", "a"}))
			Expect(p.String()).To(Equal("Upgrading b from 1.0 to 2.0\nInstalling a (2.0)"))
			a, ok := p.Find("a")
			Expect(ok).To(BeTrue())
			Expect(a.Kind).To(Equal(types.ActionInstall))
		})
	})

	Context("Errors", func() {
		It("classifies wrapped errors", func() {
			var err error = &types.UnsatisfiableDependencyError{Constraint: version.Constraint{Name: "b", Relation: version.RelationEqual, Version: "3.0"}, RequiredBy: "a (2.0)"}
			Expect(err.Error()).To(Equal("unsatisfiable dependency 'b (= 3.0)' required by a (2.0)"))
			Expect(types.IsUnsatisfiable(err)).To(BeTrue())
			Expect(types.IsConflict(err)).To(BeFalse())

			err = &types.TransactionAbortedError{Err: &types.ConflictingConstraintsError{Name: "a"}}
			Expect(types.IsTransactionAborted(err)).To(BeTrue())
			Expect(types.IsConflict(err)).To(BeTrue())

			_, perr := version.ParseConstraint("a (?? 1)")
			Expect(types.IsMalformedConstraint(perr)).To(BeTrue())
		})
	})
})
