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
	"os"
	"path/filepath"

	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/bus"
	"github.com/mudler/ipk/pkg/database"
	. "github.com/mudler/ipk/pkg/installer"
	"github.com/mudler/ipk/pkg/repository"
	"github.com/mudler/ipk/tests/helpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

// failingDatabase refuses every commit.
type failingDatabase struct {
	types.PackageDatabase
}

func (f failingDatabase) Commit(*types.Transaction) error {
	return errors.New("disk full")
}

func revision1(feed string) {
	Expect(helpers.WriteFeed(feed, false,
		helpers.Record("a", "1.0", "b"),
		helpers.Record("b", "1.0", ""),
		helpers.Record("c", "1.0", "a (= 1.0)"),
	)).To(Succeed())
}

func revision2(feed string) {
	Expect(helpers.WriteFeed(feed, true,
		helpers.Record("a", "2.0", "b (= 2.0)"),
		helpers.Record("b", "2.0", "", "z"),
		helpers.Record("c", "2.0", "a (= 2.0)"),
	)).To(Succeed())
}

func installedVersions(m *Manager) map[string]string {
	all, err := m.ListInstalled("")
	Expect(err).ToNot(HaveOccurred())
	res := map[string]string{}
	for _, p := range all {
		res[p.Name] = p.Version
	}
	return res
}

var _ = Describe("Manager", func() {
	var (
		tmpdir string
		feed   string
		ctx    *types.Context
		db     types.PackageDatabase
		opts   ManagerOptions
	)

	newManager := func() *Manager {
		m, err := NewManager(opts)
		Expect(err).ToNot(HaveOccurred())
		return m
	}

	BeforeEach(func() {
		var err error
		tmpdir, err = os.MkdirTemp("", "installer")
		Expect(err).ToNot(HaveOccurred())
		feed = filepath.Join(tmpdir, "feed")

		ctx = types.NewContext()
		ctx.Config.SystemRepositories = types.Repositories{
			{Name: "test", Type: types.RepositoryTypeLocal, Urls: []string{feed}, Priority: 100, Enable: true},
		}

		db = database.NewBoltDatabase(filepath.Join(tmpdir, "status.db"))
		opts = ManagerOptions{
			Context:  ctx,
			Database: db,
			Cache:    repository.NewCache(filepath.Join(tmpdir, "lists")),
			Bus:      bus.NewBus(),
		}
	})

	AfterEach(func() {
		os.RemoveAll(tmpdir)
	})

	Context("Upgrading through a new index revision", func() {
		It("installs the requested package with its dependencies", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())

			plan, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Names()).To(Equal([]string{"b", "a", "c"}))

			for _, n := range []string{"a", "b", "c"} {
				ok, err := m.IsInstalled(n, "1.0")
				Expect(err).ToNot(HaveOccurred())
				Expect(ok).To(BeTrue(), n)
			}

			all, err := m.ListInstalled("")
			Expect(err).ToNot(HaveOccurred())
			auto := map[string]bool{}
			for _, p := range all {
				auto[p.Name] = p.AutoInstalled
			}
			Expect(auto).To(Equal(map[string]bool{"a": true, "b": true, "c": false}))
		})

		It("upgrades dependencies and dependents of the requested package", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			revision2(feed)
			Expect(m.Update()).To(Succeed())

			plan, err := m.Install("a")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Names()).To(Equal([]string{"b", "a", "c"}))
			for _, a := range plan.Actions {
				Expect(a.Kind).To(Equal(types.ActionUpgrade))
			}

			Expect(installedVersions(m)).To(Equal(map[string]string{"a": "2.0", "b": "2.0", "c": "2.0"}))

			ok, err := m.IsInstalled("z", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("has nothing left to do on a second install", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			plan, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Empty()).To(BeTrue())
		})

		It("keeps the installed set across restarts", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			restarted := newManager()
			Expect(restarted.Index().Len()).To(Equal(3))
			Expect(installedVersions(restarted)).To(Equal(map[string]string{"a": "1.0", "b": "1.0", "c": "1.0"}))
		})
	})

	Context("Failures", func() {
		It("reports unsatisfiable dependencies and changes nothing", func() {
			Expect(helpers.WriteFeed(feed, false,
				helpers.Record("a", "1.0", "b (= 3.0)"),
				helpers.Record("b", "1.0", ""),
			)).To(Succeed())
			m := newManager()
			Expect(m.Update()).To(Succeed())

			plan, err := m.Install("a")
			Expect(err).To(HaveOccurred())
			Expect(types.IsUnsatisfiable(err)).To(BeTrue())
			Expect(plan).To(BeNil())
			Expect(installedVersions(m)).To(BeEmpty())
		})

		It("rejects malformed requests", func() {
			m := newManager()
			_, err := m.Install("a (~ 1.0)")
			Expect(types.IsMalformedConstraint(err)).To(BeTrue())
		})

		It("aborts the whole transaction when the store fails", func() {
			revision1(feed)
			opts.Database = failingDatabase{db}
			m := newManager()
			Expect(m.Update()).To(Succeed())

			_, err := m.Install("c")
			Expect(err).To(HaveOccurred())
			Expect(types.IsTransactionAborted(err)).To(BeTrue())

			all, err := db.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(BeEmpty())
		})

		It("keeps the previous revision when a feed is unavailable", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())
			before := m.Index().ID()

			ctx.Config.SystemRepositories = append(ctx.Config.SystemRepositories, types.Repository{
				Name: "missing", Type: types.RepositoryTypeLocal, Urls: []string{filepath.Join(tmpdir, "nope")}, Enable: true,
			})
			err := m.Update()
			Expect(err).To(HaveOccurred())
			Expect(types.IsIndexUnavailable(err)).To(BeTrue())
			Expect(m.Index().ID()).To(Equal(before))
			Expect(m.List("")).To(HaveLen(3))
		})
	})

	Context("Options", func() {
		It("computes the plan without applying it on noaction", func() {
			revision1(feed)
			opts.NoAction = true
			m := newManager()
			Expect(m.Update()).To(Succeed())

			plan, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Len()).To(Equal(3))
			Expect(installedVersions(m)).To(BeEmpty())
		})

		It("reinstalls requested packages when forced", func() {
			revision1(feed)
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			opts.ForceReinstall = true
			forced := newManager()
			plan, err := forced.Install("c")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Names()).To(Equal([]string{"c"}))
			Expect(plan.Actions[0].Kind).To(Equal(types.ActionReinstall))
		})

		It("groups operations under one lock", func() {
			revision1(feed)
			m := newManager()

			err := m.Exclusive(func(ops Operations) error {
				if err := ops.Update(); err != nil {
					return err
				}
				if _, err := ops.Install("a"); err != nil {
					return err
				}
				ok, err := ops.IsInstalled("b", "1.0")
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("b missing")
				}
				return nil
			})
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Context("Upgrade and removal", func() {
		BeforeEach(func() {
			revision1(feed)
		})

		It("upgrades every installed package", func() {
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			revision2(feed)
			Expect(m.Update()).To(Succeed())

			_, err = m.Upgrade()
			Expect(err).ToNot(HaveOccurred())
			Expect(installedVersions(m)).To(Equal(map[string]string{"a": "2.0", "b": "2.0", "c": "2.0"}))
		})

		It("does not upgrade held packages", func() {
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("b")
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Flag(FlagHold, "b")).To(Succeed())

			revision2(feed)
			Expect(m.Update()).To(Succeed())

			plan, err := m.Upgrade()
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Empty()).To(BeTrue())

			upgradable, err := m.ListUpgradable()
			Expect(err).ToNot(HaveOccurred())
			Expect(upgradable).To(BeEmpty())

			Expect(m.Flag(FlagUnhold, "b")).To(Succeed())
			_, err = m.Upgrade("b")
			Expect(err).ToNot(HaveOccurred())
			Expect(installedVersions(m)).To(Equal(map[string]string{"b": "2.0"}))
		})

		It("rejects unknown flags and packages", func() {
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("b")
			Expect(err).ToNot(HaveOccurred())

			Expect(m.Flag("frozen", "b")).ToNot(Succeed())
			Expect(m.Flag(FlagHold, "nope")).ToNot(Succeed())
		})

		It("refuses to break installed dependents", func() {
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			_, err = m.Remove(RemoveOptions{}, "a")
			Expect(err).To(HaveOccurred())
			Expect(types.IsDependentsPresent(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("a is required by c"))

			_, err = m.Remove(RemoveOptions{Recursive: true}, "a")
			Expect(err).ToNot(HaveOccurred())
			Expect(installedVersions(m)).To(Equal(map[string]string{"b": "1.0"}))
		})

		It("drops auto installed packages nothing needs", func() {
			m := newManager()
			Expect(m.Update()).To(Succeed())
			_, err := m.Install("c")
			Expect(err).ToNot(HaveOccurred())

			plan, err := m.Remove(RemoveOptions{AutoRemove: true}, "c")
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Len()).To(Equal(3))
			for _, a := range plan.Actions {
				Expect(a.Kind).To(Equal(types.ActionRemove))
			}
			Expect(installedVersions(m)).To(BeEmpty())
		})
	})
})
