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

package types

import (
	"fmt"
	"sort"
	"strings"

	version "github.com/mudler/ipk/pkg/versioner"

	"github.com/jinzhu/copier"
)

// PackageRecord is one version of a package as advertised by a feed.
// Records are immutable once published in an index revision.
type PackageRecord struct {
	Name     string               `json:"name" yaml:"name"`
	Version  string               `json:"version" yaml:"version"`
	Depends  []version.Constraint `json:"depends,omitempty" yaml:"depends,omitempty"`
	Provides []string             `json:"provides,omitempty" yaml:"provides,omitempty"`

	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Maintainer   string `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	Section      string `json:"section,omitempty" yaml:"section,omitempty"`
	Filename     string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Size         int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`

	// Repository is the feed that published the record
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`
}

// PackageID identifies a record by name and version.
func PackageID(name, version string) string {
	return name + "@" + version
}

func (p *PackageRecord) ID() string {
	return PackageID(p.Name, p.Version)
}

func (p *PackageRecord) HumanReadableString() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Version)
}

func (p *PackageRecord) String() string {
	return p.HumanReadableString()
}

func (p *PackageRecord) HasProvide(name string) bool {
	for _, pr := range p.Provides {
		if pr == name {
			return true
		}
	}
	return false
}

// Matches reports whether the record answers to name, literally or through
// its Provides.
func (p *PackageRecord) Matches(name string) bool {
	return p.Name == name || p.HasProvide(name)
}

// Satisfies reports whether the record can fulfil c. A record providing
// c.Name is held to the same version restriction as a literal match.
func (p *PackageRecord) Satisfies(c version.Constraint, v version.Versioner) bool {
	return p.Matches(c.Name) && c.Admit(p.Version, v)
}

// DependsOn returns the names required by the record, in declaration order.
func (p *PackageRecord) DependsOn() []string {
	res := make([]string, 0, len(p.Depends))
	for _, d := range p.Depends {
		res = append(res, d.Name)
	}
	return res
}

func (p *PackageRecord) Clone() *PackageRecord {
	n := &PackageRecord{}
	copier.Copy(n, p)
	n.Depends = append([]version.Constraint(nil), p.Depends...)
	n.Provides = append([]string(nil), p.Provides...)
	return n
}

// InstalledPackage is the persisted status entry of an installed package.
// Depends and Provides are kept so the entry stays resolvable after the
// record disappears from the feeds.
type InstalledPackage struct {
	Name         string               `storm:"id" json:"name" yaml:"name"`
	Version      string               `json:"version" yaml:"version"`
	Depends      []version.Constraint `json:"depends,omitempty" yaml:"depends,omitempty"`
	Provides     []string             `json:"provides,omitempty" yaml:"provides,omitempty"`
	Architecture string               `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Repository   string               `json:"repository,omitempty" yaml:"repository,omitempty"`

	AutoInstalled bool  `json:"auto_installed,omitempty" yaml:"auto_installed,omitempty"`
	Hold          bool  `json:"hold,omitempty" yaml:"hold,omitempty"`
	InstalledTime int64 `json:"installed_time,omitempty" yaml:"installed_time,omitempty"`
}

func NewInstalledPackage(r *PackageRecord) *InstalledPackage {
	i := &InstalledPackage{}
	copier.Copy(i, r)
	i.Depends = append([]version.Constraint(nil), r.Depends...)
	i.Provides = append([]string(nil), r.Provides...)
	return i
}

// Record returns the package metadata of the entry.
func (i *InstalledPackage) Record() *PackageRecord {
	r := &PackageRecord{}
	copier.Copy(r, i)
	r.Depends = append([]version.Constraint(nil), i.Depends...)
	r.Provides = append([]string(nil), i.Provides...)
	return r
}

func (i *InstalledPackage) HumanReadableString() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Version)
}

// Flags renders the status flags the way opkg prints them.
func (i *InstalledPackage) Flags() string {
	flags := []string{}
	if i.Hold {
		flags = append(flags, "hold")
	} else {
		flags = append(flags, "install")
	}
	if i.AutoInstalled {
		flags = append(flags, "auto")
	} else {
		flags = append(flags, "user")
	}
	return strings.Join(flags, " ")
}

// InstalledSet is a point-in-time view of the status store.
type InstalledSet map[string]*InstalledPackage

func (s InstalledSet) Get(name string) (*InstalledPackage, bool) {
	p, ok := s[name]
	return p, ok
}

// Names returns the installed names in lexical order.
func (s InstalledSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Providers returns the installed entries answering to name, literal match
// first.
func (s InstalledSet) Providers(name string) []*InstalledPackage {
	var res []*InstalledPackage
	if p, ok := s[name]; ok {
		res = append(res, p)
	}
	for _, n := range s.Names() {
		p := s[n]
		if p.Name != name && p.Record().HasProvide(name) {
			res = append(res, p)
		}
	}
	return res
}

// Satisfied reports whether some installed entry satisfies c.
func (s InstalledSet) Satisfied(c version.Constraint, v version.Versioner) bool {
	for _, p := range s.Providers(c.Name) {
		if p.Record().Satisfies(c, v) {
			return true
		}
	}
	return false
}
