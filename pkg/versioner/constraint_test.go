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

package version_test

import (
	. "github.com/mudler/ipk/pkg/versioner"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Constraint", func() {
	versioner := DefaultVersioner()

	Context("Parsing", func() {
		It("parses a bare name", func() {
			c, err := ParseConstraint("b")
			Expect(err).ToNot(HaveOccurred())
			Expect(c).To(Equal(Constraint{Name: "b"}))
			Expect(c.IsVersioned()).To(BeFalse())
		})

		It("parses the relational form", func() {
			c, err := ParseConstraint("b (= 1.0)")
			Expect(err).ToNot(HaveOccurred())
			Expect(c).To(Equal(Constraint{Name: "b", Relation: RelationEqual, Version: "1.0"}))

			c, err = ParseConstraint(" a (>=2.0) ")
			Expect(err).ToNot(HaveOccurred())
			Expect(c).To(Equal(Constraint{Name: "a", Relation: RelationGreaterEqual, Version: "2.0"}))
		})

		It("accepts the dpkg strict operators", func() {
			c, err := ParseConstraint("a (<< 2.0)")
			Expect(err).ToNot(HaveOccurred())
			Expect(c.Relation).To(Equal(RelationLess))

			c, err = ParseConstraint("a (>> 2.0)")
			Expect(err).ToNot(HaveOccurred())
			Expect(c.Relation).To(Equal(RelationGreater))
		})

		It("fails on unknown operators", func() {
			for _, s := range []string{"a (!= 1.0)", "a (~ 1.0)", "a (1.0)", "a (=~ 1)"} {
				_, err := ParseConstraint(s)
				Expect(err).To(HaveOccurred(), s)
				Expect(IsMalformedConstraint(err)).To(BeTrue(), s)
			}
		})

		It("fails on empty names", func() {
			for _, s := range []string{"", "   ", "(= 1.0)"} {
				_, err := ParseConstraint(s)
				Expect(IsMalformedConstraint(err)).To(BeTrue(), s)
			}
		})

		It("fails on broken restrictions", func() {
			for _, s := range []string{"a (= 1.0", "a ()", "a (=)", "a b"} {
				_, err := ParseConstraint(s)
				Expect(IsMalformedConstraint(err)).To(BeTrue(), s)
			}
		})

		It("parses Depends lists", func() {
			cs, err := ParseConstraints("a (= 1.0), b,c (>> 3),")
			Expect(err).ToNot(HaveOccurred())
			Expect(cs).To(Equal([]Constraint{
				{Name: "a", Relation: RelationEqual, Version: "1.0"},
				{Name: "b"},
				{Name: "c", Relation: RelationGreater, Version: "3"},
			}))
			Expect(FormatConstraints(cs)).To(Equal("a (= 1.0), b, c (> 3)"))
		})

		It("reports the first malformed entry of a list", func() {
			_, err := ParseConstraints("a, b (?? 1)")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("b (?? 1)"))
		})
	})

	Context("Admit", func() {
		It("admits any version when unversioned", func() {
			Expect(Constraint{Name: "a"}.Admit("0.1", versioner)).To(BeTrue())
		})

		It("compares with the versioner", func() {
			eq := Constraint{Name: "a", Relation: RelationEqual, Version: "1.0"}
			Expect(eq.Admit("1.0", versioner)).To(BeTrue())
			Expect(eq.Admit("1.00", versioner)).To(BeTrue())
			Expect(eq.Admit("2.0", versioner)).To(BeFalse())

			ge := Constraint{Name: "a", Relation: RelationGreaterEqual, Version: "1.9"}
			Expect(ge.Admit("1.10", versioner)).To(BeTrue())
			Expect(ge.Admit("1.8", versioner)).To(BeFalse())

			lt := Constraint{Name: "a", Relation: RelationLess, Version: "2.0"}
			Expect(lt.Admit("2.0", versioner)).To(BeFalse())
			Expect(lt.Admit("1.99", versioner)).To(BeTrue())
		})
	})
})
