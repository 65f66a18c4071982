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

package version

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Relation is the relational operator of a versioned dependency.
type Relation string

const (
	RelationAny          Relation = ""
	RelationEqual        Relation = "="
	RelationLess         Relation = "<"
	RelationLessEqual    Relation = "<="
	RelationGreater      Relation = ">"
	RelationGreaterEqual Relation = ">="
)

// opkg control files also carry the dpkg spelling of the strict relations.
var relations = map[string]Relation{
	"=":  RelationEqual,
	"<":  RelationLess,
	"<<": RelationLess,
	"<=": RelationLessEqual,
	">":  RelationGreater,
	">>": RelationGreater,
	">=": RelationGreaterEqual,
}

// ParseRelation maps an operator token to its Relation.
func ParseRelation(op string) (Relation, bool) {
	r, ok := relations[strings.TrimSpace(op)]
	return r, ok
}

// Constraint is a dependency on a package name, optionally restricted to
// the versions admitted by Relation and Version.
type Constraint struct {
	Name     string   `json:"name" yaml:"name"`
	Relation Relation `json:"relation,omitempty" yaml:"relation,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
}

// MalformedConstraintError is returned when a dependency expression cannot
// be parsed.
type MalformedConstraintError struct {
	Text   string
	Reason string
}

func (e *MalformedConstraintError) Error() string {
	return fmt.Sprintf("malformed constraint '%s': %s", e.Text, e.Reason)
}

func IsMalformedConstraint(err error) bool {
	_, ok := errors.Cause(err).(*MalformedConstraintError)
	return ok
}

func malformed(text, reason string) error {
	return &MalformedConstraintError{Text: text, Reason: reason}
}

// ParseConstraint parses "name" or "name (OP version)".
func ParseConstraint(text string) (Constraint, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Constraint{}, malformed(text, "empty package name")
	}

	name := s
	rest := ""
	if idx := strings.Index(s, "("); idx >= 0 {
		name = strings.TrimSpace(s[:idx])
		rest = strings.TrimSpace(s[idx+1:])
		if !strings.HasSuffix(rest, ")") {
			return Constraint{}, malformed(text, "missing closing parenthesis")
		}
		rest = strings.TrimSpace(strings.TrimSuffix(rest, ")"))
		if rest == "" {
			return Constraint{}, malformed(text, "empty version restriction")
		}
	}

	if name == "" {
		return Constraint{}, malformed(text, "empty package name")
	}
	if strings.ContainsAny(name, " \t<>=(),|") {
		return Constraint{}, malformed(text, fmt.Sprintf("invalid package name '%s'", name))
	}

	c := Constraint{Name: name}
	if rest == "" {
		return c, nil
	}

	opEnd := strings.IndexFunc(rest, func(r rune) bool {
		return !strings.ContainsRune("<>=!", r)
	})
	if opEnd == -1 {
		return Constraint{}, malformed(text, "missing version")
	}
	op := rest[:opEnd]
	ver := strings.TrimSpace(rest[opEnd:])

	rel, ok := ParseRelation(op)
	if !ok {
		return Constraint{}, malformed(text, fmt.Sprintf("unknown operator '%s'", op))
	}
	if ver == "" || strings.ContainsAny(ver, " \t()") {
		return Constraint{}, malformed(text, fmt.Sprintf("invalid version '%s'", ver))
	}

	c.Relation = rel
	c.Version = ver
	return c, nil
}

// ParseConstraints parses a comma separated Depends field. Empty entries,
// as left by a trailing comma, are skipped.
func ParseConstraints(list string) ([]Constraint, error) {
	var res []Constraint
	for _, entry := range strings.Split(list, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		c, err := ParseConstraint(entry)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (c Constraint) IsVersioned() bool {
	return c.Relation != RelationAny
}

// Admit reports whether version satisfies the constraint restriction. The
// name is not checked.
func (c Constraint) Admit(version string, v Versioner) bool {
	if !c.IsVersioned() {
		return true
	}

	cmp := v.Compare(version, c.Version)
	switch c.Relation {
	case RelationEqual:
		return cmp == 0
	case RelationLess:
		return cmp < 0
	case RelationLessEqual:
		return cmp <= 0
	case RelationGreater:
		return cmp > 0
	case RelationGreaterEqual:
		return cmp >= 0
	}
	return false
}

func (c Constraint) String() string {
	if !c.IsVersioned() {
		return c.Name
	}
	return fmt.Sprintf("%s (%s %s)", c.Name, c.Relation, c.Version)
}

// FormatConstraints renders constraints back into the Depends field syntax.
func FormatConstraints(cs []Constraint) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}
