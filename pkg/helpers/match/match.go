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

package match

import "path"

// Glob reports whether name matches the shell pattern. An empty pattern
// matches everything, a malformed one nothing.
func Glob(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// FilterGlob returns the names matching the shell pattern, keeping order.
func FilterGlob(pattern string, names []string) []string {
	res := []string{}
	for _, n := range names {
		if Glob(pattern, n) {
			res = append(res, n)
		}
	}
	return res
}
