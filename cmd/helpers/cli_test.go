// Copyright © 2019 Ettore Di Giacinto <mudler@gentoo.org>
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

package cmd_helpers_test

import (
	. "github.com/mudler/ipk/cmd/helpers"
	version "github.com/mudler/ipk/pkg/versioner"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CLI Helpers", func() {
	Context("Can parse package strings correctly", func() {
		It("accept single package names", func() {
			pack, err := ParsePackageStr("foo")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.Name).To(Equal("foo"))
			Expect(pack.IsVersioned()).To(BeFalse())
		})
		It("accept versioned packages", func() {
			pack, err := ParsePackageStr("foo@1.1")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.Name).To(Equal("foo"))
			Expect(pack.Relation).To(Equal(version.RelationEqual))
			Expect(pack.Version).To(Equal("1.1"))
		})
		It("accept versioned ranges", func() {
			pack, err := ParsePackageStr("foo@>=1.1")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.String()).To(Equal("foo (>= 1.1)"))
		})
		It("accept opkg selectors", func() {
			pack, err := ParsePackageStr("foo=1.2-r1")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.String()).To(Equal("foo (= 1.2-r1)"))

			pack, err = ParsePackageStr("foo<<1.2")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.Relation).To(Equal(version.RelationLess))
			Expect(pack.Version).To(Equal("1.2"))
		})
		It("accept the dependency syntax", func() {
			pack, err := ParsePackageStr("foo (<= 1.2)")
			Expect(err).ToNot(HaveOccurred())
			Expect(pack.String()).To(Equal("foo (<= 1.2)"))
		})
		It("rejects malformed selectors", func() {
			_, err := ParsePackageStr("foo>=")
			Expect(version.IsMalformedConstraint(err)).To(BeTrue())

			_, err = ParsePackageStr("=1.0")
			Expect(version.IsMalformedConstraint(err)).To(BeTrue())

			_, err = ParsePackageStr("foo@=>1.0")
			Expect(version.IsMalformedConstraint(err)).To(BeTrue())
		})
		It("parses a list of arguments", func() {
			packs, err := ParsePackageStrs([]string{"a", "b@2.0"})
			Expect(err).ToNot(HaveOccurred())
			Expect(version.FormatConstraints(packs)).To(Equal("a, b (= 2.0)"))

			_, err = ParsePackageStrs([]string{"a", "b@"})
			Expect(err).ToNot(HaveOccurred())
		})
	})
})
