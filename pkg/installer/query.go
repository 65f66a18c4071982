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

package installer

import (
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/helpers/match"
	version "github.com/mudler/ipk/pkg/versioner"

	"github.com/pkg/errors"
)

// Upgradable is an installed package with a newer version advertised.
type Upgradable struct {
	Name      string `json:"name" yaml:"name"`
	Installed string `json:"installed" yaml:"installed"`
	Available string `json:"available" yaml:"available"`
}

// PackageInfo collects what is known about one package name.
type PackageInfo struct {
	Name      string                  `json:"name" yaml:"name"`
	Installed *types.InstalledPackage `json:"installed,omitempty" yaml:"installed,omitempty"`
	Available []*types.PackageRecord  `json:"available,omitempty" yaml:"available,omitempty"`
}

// List returns every advertised record whose name matches the glob
// pattern. An empty pattern lists everything.
func (m *Manager) List(pattern string) []*types.PackageRecord {
	m.RLock()
	defer m.RUnlock()

	res := []*types.PackageRecord{}
	for _, r := range m.index.Current().Records() {
		if match.Glob(pattern, r.Name) {
			res = append(res, r)
		}
	}
	return res
}

func (m *Manager) ListInstalled(pattern string) ([]*types.InstalledPackage, error) {
	m.RLock()
	defer m.RUnlock()

	all, err := m.db.List()
	if err != nil {
		return nil, err
	}
	res := []*types.InstalledPackage{}
	for _, p := range all {
		if match.Glob(pattern, p.Name) {
			res = append(res, p)
		}
	}
	return res, nil
}

// ListUpgradable returns the installed packages, held ones excluded, for
// which the index advertises a higher version.
func (m *Manager) ListUpgradable() ([]Upgradable, error) {
	m.RLock()
	defer m.RUnlock()

	all, err := m.db.List()
	if err != nil {
		return nil, err
	}

	idx := m.index.Current()
	res := []Upgradable{}
	for _, p := range all {
		if p.Hold {
			continue
		}
		versions := idx.Versions(p.Name)
		if len(versions) == 0 {
			continue
		}
		if m.versioner.Compare(versions[0].Version, p.Version) > 0 {
			res = append(res, Upgradable{Name: p.Name, Installed: p.Version, Available: versions[0].Version})
		}
	}
	return res, nil
}

func (m *Manager) Info(name string) (*PackageInfo, error) {
	m.RLock()
	defer m.RUnlock()

	info := &PackageInfo{Name: name, Available: m.index.Current().Versions(name)}

	p, err := m.db.GetInstalled(name)
	switch {
	case err == nil:
		info.Installed = p
	case !errors.Is(err, types.ErrPackageNotFound):
		return nil, err
	}

	if info.Installed == nil && len(info.Available) == 0 {
		return nil, errors.Errorf("unknown package '%s'", name)
	}
	return info, nil
}

// WhatProvides returns the records answering to name, the advertised ones
// followed by installed providers missing from the index.
func (m *Manager) WhatProvides(name string) ([]*types.PackageRecord, error) {
	m.RLock()
	defer m.RUnlock()

	installed, err := m.db.Snapshot()
	if err != nil {
		return nil, err
	}

	res := m.index.Lookup(name)
	seen := map[string]bool{}
	for _, r := range res {
		seen[r.ID()] = true
	}
	for _, p := range installed.Providers(name) {
		r := p.Record()
		if !seen[r.ID()] {
			res = append(res, r)
		}
	}
	return res, nil
}

// WhatDepends returns the packages declaring a dependency on name. With
// installedOnly the installed set is searched instead of the index.
func (m *Manager) WhatDepends(name string, installedOnly bool) ([]*types.PackageRecord, error) {
	m.RLock()
	defer m.RUnlock()

	if !installedOnly {
		return m.index.Current().WhatDepends(name), nil
	}

	all, err := m.db.List()
	if err != nil {
		return nil, err
	}
	res := []*types.PackageRecord{}
	for _, p := range all {
		r := p.Record()
		for _, d := range r.Depends {
			if d.Name == name {
				res = append(res, r)
				break
			}
		}
	}
	return res, nil
}

// CompareVersions evaluates "v1 op v2" with the configured version scheme.
// op is one of the Depends relations, dpkg's "<<" and ">>" included.
func (m *Manager) CompareVersions(v1, op, v2 string) (bool, error) {
	rel, ok := version.ParseRelation(op)
	if !ok {
		return false, errors.Errorf("unknown operator '%s'", op)
	}
	return version.Constraint{Relation: rel, Version: v2}.Admit(v1, m.versioner), nil
}
