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

package index

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/mudler/ipk/pkg/api/core/types"
	version "github.com/mudler/ipk/pkg/versioner"
)

// Index is one immutable revision of the available packages.
type Index struct {
	id        string
	versioner version.Versioner

	// records by literal name, highest version first
	records map[string][]*types.PackageRecord
	// records by provided name, grouped by provider name
	provides map[string][]*types.PackageRecord
	names    []string
}

// New builds a revision out of records. When the same name and version is
// published more than once the first occurrence wins, so callers pass
// records ordered by feed preference.
func New(records []*types.PackageRecord, v version.Versioner) *Index {
	if v == nil {
		v = version.DefaultVersioner()
	}

	idx := &Index{
		versioner: v,
		records:   map[string][]*types.PackageRecord{},
		provides:  map[string][]*types.PackageRecord{},
	}

	seen := map[string]bool{}
	for _, r := range records {
		if r == nil || seen[r.ID()] {
			continue
		}
		seen[r.ID()] = true
		idx.records[r.Name] = append(idx.records[r.Name], r)
	}

	for name, rs := range idx.records {
		sort.SliceStable(rs, func(i, j int) bool {
			return v.Compare(rs[i].Version, rs[j].Version) > 0
		})
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)

	for _, name := range idx.names {
		for _, r := range idx.records[name] {
			for _, p := range r.Provides {
				if p == r.Name {
					continue
				}
				idx.provides[p] = append(idx.provides[p], r)
			}
		}
	}

	idx.id = fingerprint(idx)
	return idx
}

// Empty returns a revision without packages.
func Empty(v version.Versioner) *Index {
	return New(nil, v)
}

func fingerprint(idx *Index) string {
	entries := []*types.PackageRecord{}
	for _, name := range idx.names {
		entries = append(entries, idx.records[name]...)
	}
	h, err := hashstructure.Hash(entries, hashstructure.FormatV2, nil)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", h)
}

// ID fingerprints the revision content. Two revisions advertising the same
// records share the ID.
func (i *Index) ID() string {
	return i.id
}

func (i *Index) Versioner() version.Versioner {
	return i.versioner
}

func (i *Index) Len() int {
	n := 0
	for _, rs := range i.records {
		n += len(rs)
	}
	return n
}

// Names returns the literal package names in lexical order.
func (i *Index) Names() []string {
	return append([]string(nil), i.names...)
}

// Versions returns the records literally named name, highest first.
func (i *Index) Versions(name string) []*types.PackageRecord {
	return append([]*types.PackageRecord(nil), i.records[name]...)
}

// Get returns the record with the given name and a version comparing equal
// to v.
func (i *Index) Get(name, v string) (*types.PackageRecord, bool) {
	for _, r := range i.records[name] {
		if i.versioner.Compare(r.Version, v) == 0 {
			return r, true
		}
	}
	return nil, false
}

// Lookup returns every record answering to name: the literal ones first,
// highest version first, followed by the providers of name.
func (i *Index) Lookup(name string) []*types.PackageRecord {
	res := i.Versions(name)
	return append(res, i.provides[name]...)
}

// Providers returns only the records providing name under another name.
func (i *Index) Providers(name string) []*types.PackageRecord {
	return append([]*types.PackageRecord(nil), i.provides[name]...)
}

// Records returns all records ordered by name, highest version first.
func (i *Index) Records() []*types.PackageRecord {
	res := []*types.PackageRecord{}
	for _, name := range i.names {
		res = append(res, i.records[name]...)
	}
	return res
}

// Latest returns the highest version of every package.
func (i *Index) Latest() []*types.PackageRecord {
	res := []*types.PackageRecord{}
	for _, name := range i.names {
		res = append(res, i.records[name][0])
	}
	return res
}

// WhatDepends returns the records declaring a dependency on name.
func (i *Index) WhatDepends(name string) []*types.PackageRecord {
	res := []*types.PackageRecord{}
	for _, r := range i.Records() {
		for _, d := range r.Depends {
			if d.Name == name {
				res = append(res, r)
				break
			}
		}
	}
	return res
}
