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

package solver

import (
	"sort"

	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/pkg/errors"
)

// Uninstall plans the removal of names. Installed packages that would lose
// the last package satisfying one of their dependencies make it fail with
// a DependentsPresentError, unless opts.Recursive removes them as well.
func (s *Solver) Uninstall(opts UninstallOptions, names ...string) (*types.Plan, error) {
	if len(names) == 0 {
		return nil, errors.New("no packages to remove")
	}

	remove := map[string]bool{}
	for _, n := range names {
		inst, ok := s.Installed[n]
		if !ok {
			return nil, errors.Errorf("package %s is not installed", n)
		}
		if inst.Hold {
			return nil, errors.Errorf("package %s is held", n)
		}
		remove[n] = true
	}

	for {
		broken := s.brokenDependents(remove)
		if len(broken) == 0 {
			break
		}

		removed := make([]string, 0, len(broken))
		for n := range broken {
			removed = append(removed, n)
		}
		sort.Strings(removed)

		if !opts.Recursive {
			return nil, &types.DependentsPresentError{Name: removed[0], Dependents: broken[removed[0]]}
		}
		for _, n := range removed {
			for _, dep := range broken[n] {
				if s.Installed[dep].Hold {
					return nil, errors.Errorf("package %s is held and depends on %s", dep, n)
				}
				remove[dep] = true
			}
		}
	}

	if opts.AutoRemove {
		for changed := true; changed; {
			changed = false
			for _, n := range s.Installed.Names() {
				inst := s.Installed[n]
				if remove[n] || !inst.AutoInstalled || inst.Hold || s.needed(n, remove) {
					continue
				}
				remove[n] = true
				changed = true
			}
		}
	}

	nodes := []string{}
	for _, n := range s.Installed.Names() {
		if remove[n] {
			nodes = append(nodes, n)
		}
	}

	edges := map[string][]string{}
	for _, n := range nodes {
		for _, d := range s.Installed[n].Depends {
			for _, p := range s.Installed.Providers(d.Name) {
				if remove[p.Name] && p.Record().Satisfies(d, s.Versioner) {
					edges[n] = append(edges[n], p.Name)
				}
			}
		}
	}

	// dependents go away before what they depend on
	ordered := topologicalOrder(nodes, edges)
	plan := &types.Plan{}
	for i := len(ordered) - 1; i >= 0; i-- {
		inst := s.Installed[ordered[i]]
		plan.Actions = append(plan.Actions, types.Action{
			Kind:     types.ActionRemove,
			Package:  inst.Record(),
			Previous: inst.Version,
			Auto:     inst.AutoInstalled,
		})
	}
	return plan, nil
}

func (s *Solver) remaining(remove map[string]bool) types.InstalledSet {
	set := types.InstalledSet{}
	for n, p := range s.Installed {
		if !remove[n] {
			set[n] = p
		}
	}
	return set
}

// brokenDependents maps every package about to be removed to the remaining
// packages that would be left without a satisfier.
func (s *Solver) brokenDependents(remove map[string]bool) map[string][]string {
	left := s.remaining(remove)
	res := map[string][]string{}

	for _, n := range left.Names() {
		for _, d := range left[n].Depends {
			if left.Satisfied(d, s.Versioner) || !s.Installed.Satisfied(d, s.Versioner) {
				continue
			}
			for _, p := range s.Installed.Providers(d.Name) {
				if !remove[p.Name] || !p.Record().Satisfies(d, s.Versioner) {
					continue
				}
				if !contains(res[p.Name], n) {
					res[p.Name] = append(res[p.Name], n)
				}
			}
		}
	}
	return res
}

// needed reports whether a remaining package other than name depends on
// something name satisfies.
func (s *Solver) needed(name string, remove map[string]bool) bool {
	r := s.Installed[name].Record()
	for n, p := range s.remaining(remove) {
		if n == name {
			continue
		}
		for _, d := range p.Depends {
			if r.Satisfies(d, s.Versioner) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
