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

	"github.com/crillab/gophersat/bf"
	"github.com/mudler/ipk/pkg/api/core/types"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/pkg/errors"
)

// PackageResolver assists the Solver when greedy resolution hits a dead
// end. It returns one record per name to pin the next greedy pass to.
type PackageResolver interface {
	Solve(s *Solver, req Request) (map[string]*types.PackageRecord, error)
}

// SATResolver encodes the reachable part of the index as a boolean formula
// and asks gophersat for a model. Preferences are applied one at a time,
// keeping each only if the formula stays satisfiable.
type SATResolver struct{}

func NewSATResolver() *SATResolver {
	return &SATResolver{}
}

// universe is the set of records reachable from a request.
type universe struct {
	solver  *Solver
	req     Request
	records map[string]*types.PackageRecord
	byName  map[string][]*types.PackageRecord
	names   []string
}

func newUniverse(s *Solver, req Request) *universe {
	u := &universe{
		solver:  s,
		req:     req,
		records: map[string]*types.PackageRecord{},
		byName:  map[string][]*types.PackageRecord{},
	}

	queue := []version.Constraint{}
	queue = append(queue, req.Roots...)
	for _, n := range s.Installed.Names() {
		queue = append(queue, version.Constraint{Name: n})
	}

	visited := map[string]bool{}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if visited[c.Name] {
			continue
		}
		visited[c.Name] = true

		for _, r := range s.candidates(c.Name, false) {
			if _, ok := u.records[r.ID()]; ok {
				continue
			}
			u.records[r.ID()] = r
			u.byName[r.Name] = append(u.byName[r.Name], r)
			queue = append(queue, r.Depends...)
		}
	}

	for n := range u.byName {
		u.names = append(u.names, n)
	}
	sort.Strings(u.names)
	return u
}

func (u *universe) satisfying(c version.Constraint, literal bool) []*types.PackageRecord {
	var res []*types.PackageRecord
	for _, r := range u.solver.candidates(c.Name, literal) {
		if _, ok := u.records[r.ID()]; ok && r.Satisfies(c, u.solver.Versioner) {
			res = append(res, r)
		}
	}
	return res
}

func vars(records []*types.PackageRecord) []bf.Formula {
	res := make([]bf.Formula, 0, len(records))
	for _, r := range records {
		res = append(res, bf.Var(r.ID()))
	}
	return res
}

func (u *universe) formula() (bf.Formula, error) {
	formulas := []bf.Formula{}

	// at most one version per name
	for _, n := range u.names {
		rs := u.byName[n]
		for i := 0; i < len(rs); i++ {
			for j := i + 1; j < len(rs); j++ {
				formulas = append(formulas, bf.Not(bf.And(bf.Var(rs[i].ID()), bf.Var(rs[j].ID()))))
			}
		}
	}

	for _, n := range u.names {
		for _, r := range u.byName[n] {
			for _, d := range r.Depends {
				sat := u.satisfying(d, false)
				if len(sat) == 0 {
					formulas = append(formulas, bf.Not(bf.Var(r.ID())))
					continue
				}
				formulas = append(formulas, bf.Implies(bf.Var(r.ID()), bf.Or(vars(sat)...)))
			}
		}
	}

	for _, root := range u.req.Roots {
		sat := u.satisfying(root, false)
		if len(sat) == 0 {
			return nil, &types.UnsatisfiableDependencyError{Constraint: root}
		}
		formulas = append(formulas, bf.Or(vars(sat)...))
	}

	for _, n := range u.solver.Installed.Names() {
		sat := u.satisfying(version.Constraint{Name: n}, true)
		if len(sat) == 0 {
			return nil, &types.UnsatisfiableDependencyError{Constraint: version.Constraint{Name: n}}
		}
		formulas = append(formulas, bf.Or(vars(sat)...))
	}

	return bf.And(formulas...), nil
}

// preferences lists, per name, the records in the order the greedy pass
// would try them. Requested roots come first.
func (u *universe) preferences() [][]*types.PackageRecord {
	order := []string{}
	seen := map[string]bool{}
	for _, r := range u.req.Roots {
		for _, rec := range u.satisfying(r, false) {
			if !seen[rec.Name] {
				seen[rec.Name] = true
				order = append(order, rec.Name)
			}
		}
	}
	for _, n := range u.names {
		if !seen[n] {
			order = append(order, n)
		}
	}

	res := [][]*types.PackageRecord{}
	for _, n := range order {
		cands := u.satisfying(version.Constraint{Name: n}, true)
		highest := u.req.isRoot(n) || u.req.prefersHighest(n)
		if inst, ok := u.solver.Installed[n]; ok && !highest {
			for i, c := range cands {
				if c.Version == inst.Version {
					cands = append([]*types.PackageRecord{c}, append(cands[:i:i], cands[i+1:]...)...)
					break
				}
			}
		}
		res = append(res, cands)
	}
	return res
}

func (r *SATResolver) Solve(s *Solver, req Request) (map[string]*types.PackageRecord, error) {
	u := newUniverse(s, req)

	f, err := u.formula()
	if err != nil {
		return nil, err
	}
	if bf.Solve(f) == nil {
		return nil, errors.New("no solution satisfies every constraint")
	}

	accepted := []bf.Formula{f}
	for _, cands := range u.preferences() {
		for _, c := range cands {
			try := append(append([]bf.Formula{}, accepted...), bf.Var(c.ID()))
			if bf.Solve(bf.And(try...)) != nil {
				accepted = try
				break
			}
		}
	}

	model := bf.Solve(bf.And(accepted...))
	if model == nil {
		return nil, errors.New("no solution satisfies every constraint")
	}
	return DecodeModel(model, u.records), nil
}
