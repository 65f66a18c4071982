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

import "github.com/mudler/ipk/pkg/api/core/types"

// DecodeModel maps a model returned by the SAT solver back to the selected
// record of every name.
func DecodeModel(model map[string]bool, records map[string]*types.PackageRecord) map[string]*types.PackageRecord {
	res := map[string]*types.PackageRecord{}
	for id, selected := range model {
		if !selected {
			continue
		}
		if r, ok := records[id]; ok {
			res[r.Name] = r
		}
	}
	return res
}
