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
	"github.com/mudler/ipk/pkg/index"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/pkg/errors"
)

// PackageSolver computes plans against one index revision and one snapshot
// of the installed packages. It never mutates either.
type PackageSolver interface {
	Install(roots ...version.Constraint) (*types.Plan, error)
	Upgrade(names ...string) (*types.Plan, error)
	Uninstall(opts UninstallOptions, names ...string) (*types.Plan, error)
	Solve(req Request) (*types.Plan, error)

	SetResolver(PackageResolver)
}

type UninstallOptions struct {
	// Recursive removes the installed dependents too
	Recursive bool
	// AutoRemove drops auto installed packages nothing requires any more
	AutoRemove bool
}

// Solver is the default solver: breadth-first constraint propagation over
// the index, with an optional resolver to fall back to when greedy choices
// lead to a dead end.
type Solver struct {
	Index     *index.Index
	Installed types.InstalledSet
	Versioner version.Versioner

	// ForceReinstall turns requested roots that are already installed at
	// the selected version into reinstall actions
	ForceReinstall bool

	Resolver PackageResolver

	// pins, when set, are the only candidates
	pins map[string]*types.PackageRecord
}

// NewSolver returns the solver configured by opts.
func NewSolver(opts types.SolverOptions, installed types.InstalledSet, idx *index.Index) *Solver {
	if idx == nil {
		idx = index.Empty(nil)
	}
	if installed == nil {
		installed = types.InstalledSet{}
	}

	s := &Solver{Index: idx, Installed: installed, Versioner: idx.Versioner()}
	if opts.ResolverIsSet() {
		s.Resolver = NewSATResolver()
	}
	return s
}

// SetResolver is a setter for the backend used on greedy dead ends
func (s *Solver) SetResolver(r PackageResolver) {
	s.Resolver = r
}

// Request describes what one resolution has to achieve.
type Request struct {
	Roots      []version.Constraint
	Upgrade    map[string]bool
	UpgradeAll bool
}

func (r Request) prefersHighest(name string) bool {
	return r.UpgradeAll || r.Upgrade[name]
}

func (r Request) isRoot(name string) bool {
	for _, c := range r.Roots {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Install resolves roots together with every installed package. Roots
// prefer their highest satisfying version, everything else keeps its
// installed version unless a constraint forces a change.
func (s *Solver) Install(roots ...version.Constraint) (*types.Plan, error) {
	if len(roots) == 0 {
		return nil, errors.New("no packages to install")
	}
	return s.Solve(Request{Roots: roots})
}

// Upgrade resolves the installed packages preferring the highest version
// for names, or for every installed package when names is empty.
func (s *Solver) Upgrade(names ...string) (*types.Plan, error) {
	req := Request{Upgrade: map[string]bool{}, UpgradeAll: len(names) == 0}
	for _, n := range names {
		if _, ok := s.Installed[n]; !ok {
			return nil, errors.Errorf("package %s is not installed", n)
		}
		req.Upgrade[n] = true
	}
	return s.Solve(req)
}

// Solve resolves req and returns the plan reaching the selection.
func (s *Solver) Solve(req Request) (*types.Plan, error) {
	sel, err := s.walk(req)
	if err != nil {
		if s.Resolver == nil || !(types.IsConflict(err) || types.IsUnsatisfiable(err)) {
			return nil, err
		}

		pins, rerr := s.Resolver.Solve(s, req)
		if rerr != nil {
			// the greedy error names the offending constraint, keep it
			return nil, err
		}
		pinned := *s
		pinned.pins = pins
		sel, err = pinned.walk(req)
		if err != nil {
			return nil, err
		}
	}

	return s.plan(sel, req), nil
}

// candidates returns the records answering to name: the index records
// followed by the installed ones missing from the index. Held packages only
// offer their installed record.
func (s *Solver) candidates(name string, literal bool) []*types.PackageRecord {
	var res []*types.PackageRecord
	seen := map[string]bool{}

	add := func(r *types.PackageRecord) {
		if seen[r.ID()] {
			return
		}
		if literal && r.Name != name {
			return
		}
		if s.pins != nil {
			if pin, ok := s.pins[r.Name]; !ok || pin.ID() != r.ID() {
				return
			}
		}
		if inst, ok := s.Installed[r.Name]; ok && inst.Hold && inst.Version != r.Version {
			return
		}
		seen[r.ID()] = true
		res = append(res, r)
	}

	for _, r := range s.Index.Lookup(name) {
		add(r)
	}
	for _, inst := range s.Installed.Providers(name) {
		add(inst.Record())
	}

	// literal records highest first, then the providers in lookup order
	literals := []*types.PackageRecord{}
	providers := []*types.PackageRecord{}
	for _, r := range res {
		if r.Name == name {
			literals = append(literals, r)
		} else {
			providers = append(providers, r)
		}
	}
	sort.SliceStable(literals, func(i, j int) bool {
		return s.Versioner.Compare(literals[i].Version, literals[j].Version) > 0
	})
	return append(literals, providers...)
}

// choose picks the record fulfilling d among cands, which all satisfy it.
func (s *Solver) choose(sel *selection, d demand, cands []*types.PackageRecord) *types.PackageRecord {
	if !d.preferHighest {
		for _, inst := range s.Installed.Providers(d.constraint.Name) {
			if d.literal && inst.Name != d.constraint.Name {
				continue
			}
			r := inst.Record()
			if !r.Satisfies(d.constraint, s.Versioner) {
				continue
			}
			for _, c := range cands {
				if c.ID() == r.ID() && sel.consistent(c) {
					return c
				}
			}
		}
	}

	for _, c := range cands {
		if sel.consistent(c) {
			return c
		}
	}
	return cands[0]
}

// process handles one demand, extending the selection and the frontier.
func (s *Solver) process(sel *selection, d demand, req Request) ([]demand, error) {
	c := d.constraint

	if r := sel.satisfier(c, d.literal); r != nil {
		sel.link(d.requiredBy, r.Name)
		return nil, nil
	}

	existing := sel.matching(c.Name, d.literal)
	conflict := func() error {
		return &types.ConflictingConstraintsError{
			Name:       c.Name,
			Selected:   existing[0].HumanReadableString(),
			Constraint: c,
			RequiredBy: d.requiredByString(),
		}
	}
	// a selected record named c.Name leaves no other version to pick
	if _, ok := sel.records[c.Name]; ok {
		return nil, conflict()
	}

	// only providers failing c are selected: another record may still do
	var cands []*types.PackageRecord
	for _, r := range s.candidates(c.Name, d.literal) {
		if _, taken := sel.records[r.Name]; taken {
			continue
		}
		if r.Satisfies(c, s.Versioner) {
			cands = append(cands, r)
		}
	}
	if len(cands) == 0 {
		if len(existing) > 0 {
			return nil, conflict()
		}
		return nil, &types.UnsatisfiableDependencyError{Constraint: c, RequiredBy: d.requiredByString()}
	}

	chosen := s.choose(sel, d, cands)
	sel.add(chosen)
	sel.link(d.requiredBy, chosen.Name)

	var next []demand
	for _, dep := range chosen.Depends {
		if r := sel.satisfier(dep, false); r != nil {
			sel.link(chosen, r.Name)
			continue
		}
		next = append(next, demand{
			constraint:    dep,
			requiredBy:    chosen,
			preferHighest: req.prefersHighest(dep.Name),
		})
	}
	return next, nil
}

func (s *Solver) drain(sel *selection, frontier []demand, req Request) error {
	for len(frontier) > 0 {
		d := frontier[0]
		frontier = frontier[1:]

		next, err := s.process(sel, d, req)
		if err != nil {
			return err
		}
		frontier = append(frontier, next...)
	}
	return nil
}

// walk runs the breadth-first resolution: first the closure of the
// requested roots, then every installed name in lexical order.
func (s *Solver) walk(req Request) (*selection, error) {
	sel := newSelection(s.Versioner)

	frontier := []demand{}
	for _, root := range req.Roots {
		frontier = append(frontier, demand{constraint: root, preferHighest: true})
	}
	if err := s.drain(sel, frontier, req); err != nil {
		return nil, err
	}

	for _, name := range s.Installed.Names() {
		d := demand{
			constraint:    version.Constraint{Name: name},
			preferHighest: req.prefersHighest(name),
			literal:       true,
		}
		if err := s.drain(sel, []demand{d}, req); err != nil {
			return nil, err
		}
	}

	return sel, nil
}

// plan turns a selection into the ordered actions needed to reach it.
func (s *Solver) plan(sel *selection, req Request) *types.Plan {
	plan := &types.Plan{}

	for _, name := range topologicalOrder(sel.order, sel.edges) {
		r := sel.records[name]
		requested := req.isRoot(name) || providedRoot(r, req) != ""

		inst, installed := s.Installed[name]
		if !installed {
			plan.Actions = append(plan.Actions, types.Action{
				Kind:    types.ActionInstall,
				Package: r,
				Auto:    !requested,
			})
			continue
		}

		a := types.Action{
			Package:  r,
			Previous: inst.Version,
			Auto:     inst.AutoInstalled && !requested,
		}
		switch cmp := s.Versioner.Compare(r.Version, inst.Version); {
		case cmp > 0:
			a.Kind = types.ActionUpgrade
		case cmp < 0:
			a.Kind = types.ActionDowngrade
		case s.ForceReinstall && requested:
			a.Kind = types.ActionReinstall
		default:
			continue
		}
		plan.Actions = append(plan.Actions, a)
	}

	return plan
}

// providedRoot returns the requested root r was selected for through its
// Provides, if any.
func providedRoot(r *types.PackageRecord, req Request) string {
	for _, c := range req.Roots {
		if r.HasProvide(c.Name) {
			return c.Name
		}
	}
	return ""
}
