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

package client_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/mudler/ipk/pkg/api/core/types"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"
	. "github.com/mudler/ipk/pkg/installer/client"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Http client", func() {
	var ctx *types.Context
	var tmpdir string
	var ts *httptest.Server

	BeforeEach(func() {
		var err error
		ctx = types.NewContext()
		tmpdir, err = os.MkdirTemp("", "test")
		Expect(err).ToNot(HaveOccurred())
		ts = httptest.NewServer(http.FileServer(http.Dir(tmpdir)))
	})

	AfterEach(func() {
		ts.Close()
		os.RemoveAll(tmpdir)
	})

	Context("With repository", func() {
		It("Downloads single files", func() {
			err := os.WriteFile(filepath.Join(tmpdir, "Packages"), []byte(`test`), os.ModePerm)
			Expect(err).ToNot(HaveOccurred())

			c := NewHttpClient(RepoData{Urls: []string{ts.URL}}, ctx)
			path, err := c.DownloadFile("Packages")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(path)
			Expect(fileHelper.Read(path)).To(Equal("test"))
		})

		It("Falls back to the next mirror", func() {
			err := os.WriteFile(filepath.Join(tmpdir, "Packages"), []byte(`mirror`), os.ModePerm)
			Expect(err).ToNot(HaveOccurred())

			broken := httptest.NewServer(http.NotFoundHandler())
			defer broken.Close()

			c := NewHttpClient(RepoData{Urls: []string{broken.URL, ts.URL}}, ctx)
			path, err := c.DownloadFile("Packages")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(path)
			Expect(fileHelper.Read(path)).To(Equal("mirror"))
		})

		It("Fails when no mirror has the file", func() {
			c := NewHttpClient(RepoData{Name: "main", Urls: []string{ts.URL}}, ctx)
			_, err := c.DownloadFile("Packages")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("repository 'main'"))
		})
	})
})
