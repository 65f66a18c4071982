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
	"strings"
)

type ActionKind string

const (
	ActionInstall   ActionKind = "install"
	ActionUpgrade   ActionKind = "upgrade"
	ActionDowngrade ActionKind = "downgrade"
	ActionReinstall ActionKind = "reinstall"
	ActionRemove    ActionKind = "remove"
)

// Action is one step of a plan. Package is the record that ends up
// installed, or the removed one for ActionRemove.
type Action struct {
	Kind    ActionKind     `json:"kind" yaml:"kind"`
	Package *PackageRecord `json:"package" yaml:"package"`
	// Previous is the version installed before the action, if any
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"`
	// Auto marks packages pulled in only to satisfy a dependency
	Auto bool `json:"auto,omitempty" yaml:"auto,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case ActionUpgrade:
		return fmt.Sprintf("Upgrading %s from %s to %s", a.Package.Name, a.Previous, a.Package.Version)
	case ActionDowngrade:
		return fmt.Sprintf("Downgrading %s from %s to %s", a.Package.Name, a.Previous, a.Package.Version)
	case ActionReinstall:
		return fmt.Sprintf("Reinstalling %s", a.Package.HumanReadableString())
	case ActionRemove:
		return fmt.Sprintf("Removing %s", a.Package.HumanReadableString())
	default:
		return fmt.Sprintf("Installing %s", a.Package.HumanReadableString())
	}
}

// Plan is the ordered list of actions computed by one resolution. No two
// actions target the same name.
type Plan struct {
	Actions []Action `json:"actions" yaml:"actions"`
}

func (p *Plan) Empty() bool {
	return p == nil || len(p.Actions) == 0
}

func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Actions)
}

// Find returns the action targeting name.
func (p *Plan) Find(name string) (Action, bool) {
	if p == nil {
		return Action{}, false
	}
	for _, a := range p.Actions {
		if a.Package.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Names returns the targeted names in plan order.
func (p *Plan) Names() []string {
	res := []string{}
	if p == nil {
		return res
	}
	for _, a := range p.Actions {
		res = append(res, a.Package.Name)
	}
	return res
}

func (p *Plan) String() string {
	if p.Empty() {
		return "Nothing to do."
	}
	lines := make([]string, 0, len(p.Actions))
	for _, a := range p.Actions {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}
