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

package solver_test

import (
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/index"
	. "github.com/mudler/ipk/pkg/solver"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/mudler/ipk/tests/helpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func revision(records ...*types.PackageRecord) *index.Index {
	return index.New(records, version.DefaultVersioner())
}

func want(name string) version.Constraint {
	c, err := version.ParseConstraint(name)
	Expect(err).ToNot(HaveOccurred())
	return c
}

// apply mimics a commit of plan on top of installed
func apply(installed types.InstalledSet, plan *types.Plan) types.InstalledSet {
	next := types.InstalledSet{}
	for k, v := range installed {
		next[k] = v
	}
	for _, a := range plan.Actions {
		if a.Kind == types.ActionRemove {
			delete(next, a.Package.Name)
			continue
		}
		p := types.NewInstalledPackage(a.Package)
		p.AutoInstalled = a.Auto
		if prev, ok := installed[a.Package.Name]; ok {
			p.Hold = prev.Hold
		}
		next[p.Name] = p
	}
	return next
}

func versions(set types.InstalledSet) map[string]string {
	res := map[string]string{}
	for n, p := range set {
		res[n] = p.Version
	}
	return res
}

func actions(plan *types.Plan) []string {
	res := []string{}
	for _, a := range plan.Actions {
		res = append(res, string(a.Kind)+" "+a.Package.ID())
	}
	return res
}

var _ = Describe("Solver", func() {
	rev1 := revision(
		helpers.Record("a", "1.0", "b"),
		helpers.Record("b", "1.0", ""),
		helpers.Record("c", "1.0", "a (= 1.0)"),
	)
	rev2 := revision(
		helpers.Record("a", "2.0", "b (= 2.0)"),
		helpers.Record("b", "2.0", "", "z"),
		helpers.Record("c", "2.0", "a (= 2.0)"),
	)

	Context("Upgrade propagation", func() {
		It("installs the dependency closure, dependencies first", func() {
			plan, err := NewSolver(types.SolverOptions{}, nil, rev1).Install(want("c"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{
				"install b@1.0",
				"install a@1.0",
				"install c@1.0",
			}))

			c, _ := plan.Find("c")
			Expect(c.Auto).To(BeFalse())
			a, _ := plan.Find("a")
			Expect(a.Auto).To(BeTrue())
		})

		It("re-resolves dependents after an update", func() {
			plan, err := NewSolver(types.SolverOptions{}, nil, rev1).Install(want("c"))
			Expect(err).ToNot(HaveOccurred())
			installed := apply(types.InstalledSet{}, plan)

			plan, err = NewSolver(types.SolverOptions{}, installed, rev2).Install(want("a"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{
				"upgrade b@2.0",
				"upgrade a@2.0",
				"upgrade c@2.0",
			}))
			b, _ := plan.Find("b")
			Expect(b.Previous).To(Equal("1.0"))
			Expect(b.String()).To(Equal("Upgrading b from 1.0 to 2.0"))

			installed = apply(installed, plan)
			Expect(versions(installed)).To(Equal(map[string]string{"a": "2.0", "b": "2.0", "c": "2.0"}))
			Expect(installed["a"].AutoInstalled).To(BeFalse())
			Expect(installed["c"].AutoInstalled).To(BeFalse())
		})

		It("is idempotent", func() {
			plan, err := NewSolver(types.SolverOptions{}, nil, rev1).Install(want("c"))
			Expect(err).ToNot(HaveOccurred())
			installed := apply(types.InstalledSet{}, plan)

			plan, err = NewSolver(types.SolverOptions{}, installed, rev1).Install(want("c"))
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Empty()).To(BeTrue())
			Expect(plan.String()).To(Equal("Nothing to do."))
		})

		It("keeps installed versions that are still valid", func() {
			idx := revision(
				helpers.Record("a", "1.0", "b"),
				helpers.Record("b", "1.0", ""),
				helpers.Record("b", "2.0", ""),
			)
			installed := types.InstalledSet{"b": {Name: "b", Version: "1.0"}}

			plan, err := NewSolver(types.SolverOptions{}, installed, idx).Install(want("a"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"install a@1.0"}))
		})

		It("keeps installed packages gone from the index", func() {
			installed := types.InstalledSet{
				"old": {Name: "old", Version: "0.1", Depends: []version.Constraint{{Name: "b"}}},
				"b":   {Name: "b", Version: "1.0"},
			}
			plan, err := NewSolver(types.SolverOptions{}, installed, rev2).Install(want("a"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"upgrade b@2.0", "install a@2.0"}))
		})
	})

	Context("Provides", func() {
		It("satisfies virtual names with the provider identity", func() {
			idx := revision(
				helpers.Record("app", "1.0", "z (>= 2.0)"),
				helpers.Record("b", "2.0", "", "z"),
			)
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("app"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"install b@2.0", "install app@1.0"}))
		})

		It("holds providers to the version restriction", func() {
			idx := revision(
				helpers.Record("app", "1.0", "z (>= 3.0)"),
				helpers.Record("b", "2.0", "", "z"),
			)
			_, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("app"))
			Expect(types.IsUnsatisfiable(err)).To(BeTrue())
		})

		It("reuses an installed provider", func() {
			idx := revision(
				helpers.Record("app", "1.0", "z"),
				helpers.Record("p1", "1.0", "", "z"),
				helpers.Record("p2", "1.0", "", "z"),
			)
			installed := types.InstalledSet{"p2": {Name: "p2", Version: "1.0", Provides: []string{"z"}}}
			plan, err := NewSolver(types.SolverOptions{}, installed, idx).Install(want("app"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"install app@1.0"}))
		})

		It("falls back to the literal package when a selected provider is too old", func() {
			idx := revision(
				helpers.Record("app", "1.0", "b, z (>= 2.0)"),
				helpers.Record("b", "1.0", "", "z"),
				helpers.Record("z", "2.0", ""),
			)
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("app"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"install b@1.0", "install z@2.0", "install app@1.0"}))
		})

		It("conflicts when neither the provider nor another record fits", func() {
			idx := revision(
				helpers.Record("app", "1.0", "b, z (>= 2.0)"),
				helpers.Record("b", "1.0", "", "z"),
			)
			_, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("app"))
			Expect(types.IsConflict(err)).To(BeTrue())
		})

		It("installs a provider for a requested virtual name", func() {
			idx := revision(helpers.Record("b", "2.0", "", "z"))
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("z"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"install b@2.0"}))
			Expect(plan.Actions[0].Auto).To(BeFalse())
		})
	})

	Context("Failures", func() {
		It("reports unsatisfiable dependencies", func() {
			idx := revision(helpers.Record("a", "2.0", "b (= 3.0)"), helpers.Record("b", "2.0", ""))
			_, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("a"))
			Expect(err).To(HaveOccurred())
			Expect(types.IsUnsatisfiable(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("unsatisfiable dependency 'b (= 3.0)' required by a (2.0)"))
		})

		It("reports unknown packages", func() {
			_, err := NewSolver(types.SolverOptions{}, nil, rev1).Install(want("nope"))
			Expect(types.IsUnsatisfiable(err)).To(BeTrue())
		})

		It("reports conflicting constraints", func() {
			idx := revision(
				helpers.Record("r", "1.0", "x, y"),
				helpers.Record("x", "1.0", "b (= 1.0)"),
				helpers.Record("y", "1.0", "b (= 2.0)"),
				helpers.Record("b", "1.0", ""),
				helpers.Record("b", "2.0", ""),
			)
			_, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("r"))
			Expect(err).To(HaveOccurred())
			Expect(types.IsConflict(err)).To(BeTrue())

			var conflict *types.ConflictingConstraintsError
			Expect(err).To(BeAssignableToTypeOf(conflict))
			conflict = err.(*types.ConflictingConstraintsError)
			Expect(conflict.Name).To(Equal("b"))
			Expect(conflict.RequiredBy).To(Equal("y (1.0)"))
		})

		It("never returns a partial plan", func() {
			idx := revision(helpers.Record("a", "1.0", "missing"))
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("a"))
			Expect(err).To(HaveOccurred())
			Expect(plan).To(BeNil())
		})
	})

	Context("Ordering", func() {
		It("breaks ties by discovery order", func() {
			idx := revision(
				helpers.Record("r", "1.0", "m, k, l"),
				helpers.Record("m", "1.0", ""),
				helpers.Record("k", "1.0", ""),
				helpers.Record("l", "1.0", "k"),
			)
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("r"))
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Names()).To(Equal([]string{"m", "k", "l", "r"}))
		})

		It("terminates on dependency cycles", func() {
			idx := revision(
				helpers.Record("r", "1.0", "x"),
				helpers.Record("x", "1.0", "y"),
				helpers.Record("y", "1.0", "x"),
			)
			plan, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("r"))
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Names()).To(Equal([]string{"x", "y", "r"}))
		})
	})

	Context("Upgrades", func() {
		installed := types.InstalledSet{
			"a": {Name: "a", Version: "1.0", Depends: []version.Constraint{{Name: "b"}}, AutoInstalled: false},
			"b": {Name: "b", Version: "1.0", AutoInstalled: true},
			"c": {Name: "c", Version: "1.0", Depends: []version.Constraint{{Name: "a", Relation: version.RelationEqual, Version: "1.0"}}},
		}

		It("upgrades everything", func() {
			plan, err := NewSolver(types.SolverOptions{}, installed, rev2).Upgrade()
			Expect(err).ToNot(HaveOccurred())
			Expect(versions(apply(installed, plan))).To(Equal(map[string]string{"a": "2.0", "b": "2.0", "c": "2.0"}))

			b, _ := plan.Find("b")
			Expect(b.Auto).To(BeTrue())
		})

		It("pins held packages", func() {
			held := types.InstalledSet{}
			for k, v := range installed {
				p := *v
				held[k] = &p
			}
			held["c"].Hold = true

			_, err := NewSolver(types.SolverOptions{}, held, rev2).Upgrade()
			Expect(types.IsConflict(err)).To(BeTrue())

			held["a"].Hold = true
			plan, err := NewSolver(types.SolverOptions{}, held, rev2).Upgrade()
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"upgrade b@2.0"}))
		})

		It("rejects packages that are not installed", func() {
			_, err := NewSolver(types.SolverOptions{}, installed, rev2).Upgrade("nope")
			Expect(err).To(HaveOccurred())
		})

		It("downgrades when a constraint forces it", func() {
			idx := revision(
				helpers.Record("a", "1.0", ""),
				helpers.Record("a", "2.0", ""),
				helpers.Record("c", "1.0", "a (= 1.0)"),
			)
			inst := types.InstalledSet{"a": {Name: "a", Version: "2.0"}}
			plan, err := NewSolver(types.SolverOptions{}, inst, idx).Install(want("c"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"downgrade a@1.0", "install c@1.0"}))
		})

		It("reinstalls when forced", func() {
			inst := types.InstalledSet{"b": {Name: "b", Version: "1.0"}}
			s := NewSolver(types.SolverOptions{}, inst, rev1)
			s.ForceReinstall = true
			plan, err := s.Install(want("b"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{"reinstall b@1.0"}))
		})
	})

	Context("SAT fallback", func() {
		idx := revision(
			helpers.Record("r", "1.0", "a, b"),
			helpers.Record("a", "2.0", "c (= 2.0)"),
			helpers.Record("a", "1.0", "c (= 1.0)"),
			helpers.Record("b", "1.0", "c (= 1.0)"),
			helpers.Record("c", "1.0", ""),
			helpers.Record("c", "2.0", ""),
		)

		It("fails greedily without it", func() {
			_, err := NewSolver(types.SolverOptions{}, nil, idx).Install(want("r"))
			Expect(types.IsConflict(err)).To(BeTrue())
		})

		It("finds a consistent selection", func() {
			plan, err := NewSolver(types.SolverOptions{Type: types.SATResolverType}, nil, idx).Install(want("r"))
			Expect(err).ToNot(HaveOccurred())
			Expect(actions(plan)).To(Equal([]string{
				"install c@1.0",
				"install a@1.0",
				"install b@1.0",
				"install r@1.0",
			}))
		})

		It("keeps the original error when nothing works", func() {
			broken := revision(
				helpers.Record("r", "1.0", "x, y"),
				helpers.Record("x", "1.0", "b (= 1.0)"),
				helpers.Record("y", "1.0", "b (= 2.0)"),
				helpers.Record("b", "1.0", ""),
				helpers.Record("b", "2.0", ""),
			)
			_, err := NewSolver(types.SolverOptions{Type: types.SATResolverType}, nil, broken).Install(want("r"))
			Expect(types.IsConflict(err)).To(BeTrue())
		})
	})
})
