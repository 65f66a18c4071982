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
	"github.com/mudler/ipk/pkg/api/core/types"
	version "github.com/mudler/ipk/pkg/versioner"
)

// demand is a constraint waiting in the resolution frontier.
type demand struct {
	constraint version.Constraint
	requiredBy *types.PackageRecord
	// preferHighest is set for requested roots and names being upgraded
	preferHighest bool
	// literal demands only match packages named after the constraint,
	// never providers. Installed names are re-seeded this way.
	literal bool
}

func (d demand) requiredByString() string {
	if d.requiredBy == nil {
		return ""
	}
	return d.requiredBy.HumanReadableString()
}

// selection is the working set of one resolution.
type selection struct {
	versioner version.Versioner

	records map[string]*types.PackageRecord
	// selected names in discovery order
	order []string
	// name to the names of the selected records satisfying its Depends
	edges map[string][]string
}

func newSelection(v version.Versioner) *selection {
	return &selection{
		versioner: v,
		records:   map[string]*types.PackageRecord{},
		edges:     map[string][]string{},
	}
}

func (s *selection) add(r *types.PackageRecord) {
	s.records[r.Name] = r
	s.order = append(s.order, r.Name)
}

func (s *selection) link(from *types.PackageRecord, to string) {
	if from == nil || from.Name == to {
		return
	}
	for _, e := range s.edges[from.Name] {
		if e == to {
			return
		}
	}
	s.edges[from.Name] = append(s.edges[from.Name], to)
}

// matching returns the selected records answering to name, the literal one
// first and then providers in discovery order.
func (s *selection) matching(name string, literal bool) []*types.PackageRecord {
	var res []*types.PackageRecord
	if r, ok := s.records[name]; ok {
		res = append(res, r)
	}
	if literal {
		return res
	}
	for _, n := range s.order {
		r := s.records[n]
		if r.Name != name && r.HasProvide(name) {
			res = append(res, r)
		}
	}
	return res
}

// satisfier returns the selected record fulfilling c, if any.
func (s *selection) satisfier(c version.Constraint, literal bool) *types.PackageRecord {
	for _, r := range s.matching(c.Name, literal) {
		if r.Satisfies(c, s.versioner) {
			return r
		}
	}
	return nil
}

// consistent reports whether selecting r keeps every constraint it
// declares satisfiable given what is already selected.
func (s *selection) consistent(r *types.PackageRecord) bool {
	if other, ok := s.records[r.Name]; ok && other.ID() != r.ID() {
		return false
	}
	for _, d := range r.Depends {
		if s.satisfier(d, false) != nil {
			continue
		}
		// providers failing d can be complemented by a literal record
		// later, a selected literal one cannot be replaced
		if _, ok := s.records[d.Name]; ok {
			return false
		}
	}
	return true
}
