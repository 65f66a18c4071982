// Copyright © 2019 Ettore Di Giacinto <mudler@gentoo.org>
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

package cmd_helpers

import (
	"fmt"
	"strings"

	"github.com/mudler/ipk/cmd/util"
	version "github.com/mudler/ipk/pkg/versioner"
)

func packageHasSelector(v string) bool {
	return strings.HasPrefix(v, "=") || strings.HasPrefix(v, ">") ||
		strings.HasPrefix(v, "<")
}

// ParsePackageStr parses a package given on the command line. Besides the
// Depends syntax "foo (>= 1.0)" it accepts "foo@1.0", "foo@>=1.0" and the
// opkg forms "foo=1.0" and "foo>=1.0".
func ParsePackageStr(p string) (version.Constraint, error) {
	if strings.Contains(p, "(") {
		return version.ParseConstraint(p)
	}

	name, ver := p, ""
	if idx := strings.Index(p, "@"); idx >= 0 {
		name, ver = p[:idx], p[idx+1:]
		if ver != "" && !packageHasSelector(ver) {
			ver = "=" + ver
		}
	} else if idx := strings.IndexAny(p, "<>="); idx >= 0 {
		name, ver = p[:idx], p[idx:]
	}

	if ver == "" {
		return version.ParseConstraint(name)
	}

	opEnd := strings.IndexFunc(ver, func(r rune) bool {
		return !strings.ContainsRune("<>=", r)
	})
	if opEnd <= 0 {
		return version.Constraint{}, &version.MalformedConstraintError{Text: p, Reason: "missing version"}
	}
	return version.ParseConstraint(fmt.Sprintf("%s (%s %s)", name, ver[:opEnd], ver[opEnd:]))
}

// ParsePackageStrs parses every argument, stopping at the first malformed.
func ParsePackageStrs(args []string) ([]version.Constraint, error) {
	res := make([]version.Constraint, 0, len(args))
	for _, a := range args {
		c, err := ParsePackageStr(a)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func CheckErr(err error) {
	if err != nil {
		util.DefaultContext.Fatal(err)
	}
}
