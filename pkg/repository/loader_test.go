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

package repository_test

import (
	"os"

	"github.com/mudler/ipk/pkg/api/core/types"
	. "github.com/mudler/ipk/pkg/repository"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Repository definitions", func() {
	It("writes definitions read back by the loader", func() {
		dir, err := os.MkdirTemp("", "repos")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		ctx := types.NewContext()
		ctx.Config.RepositoriesConfDir = []string{dir}

		path, err := SaveRepository(ctx, types.Repository{
			Name:   "extra",
			Urls:   []string{"https://feeds.example.org/extra"},
			Enable: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(path).To(BeAnExistingFile())

		fresh := types.NewContext()
		fresh.Config.RepositoriesConfDir = []string{dir}
		Expect(fresh.Config.LoadRepositories(fresh)).To(Succeed())
		Expect(fresh.Config.SystemRepositories).To(HaveLen(1))

		r := fresh.Config.SystemRepositories[0]
		Expect(r.Name).To(Equal("extra"))
		Expect(r.Type).To(Equal(types.RepositoryTypeHTTP))
		Expect(r.Priority).To(Equal(types.DefaultRepositoryPriority))
		Expect(r.Enable).To(BeTrue())
	})

	It("rejects invalid definitions", func() {
		ctx := types.NewContext()
		ctx.Config.RepositoriesConfDir = []string{os.TempDir()}

		_, err := SaveRepository(ctx, types.Repository{Name: "../evil", Urls: []string{"/tmp"}})
		Expect(err).To(HaveOccurred())
		_, err = SaveRepository(ctx, types.Repository{Name: "nourls"})
		Expect(err).To(HaveOccurred())
	})
})
