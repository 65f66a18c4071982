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

// topologicalOrder sorts nodes so that every node comes after the nodes it
// has edges to. Among the nodes that are ready the one discovered first is
// emitted first. A cycle is emitted as a whole, in discovery order, once
// nothing else is ready.
func topologicalOrder(nodes []string, edges map[string][]string) []string {
	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		position[n] = i
	}

	pending := make(map[string]int, len(nodes))
	dependents := map[string][]string{}
	for _, n := range nodes {
		for _, dep := range edges[n] {
			if _, known := position[dep]; !known || dep == n {
				continue
			}
			pending[n]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	emitted := make(map[string]bool, len(nodes))
	res := make([]string, 0, len(nodes))

	emit := func(n string) {
		emitted[n] = true
		res = append(res, n)
		for _, d := range dependents[n] {
			pending[d]--
		}
	}

	for len(res) < len(nodes) {
		next := ""
		for _, n := range nodes {
			if !emitted[n] && pending[n] == 0 {
				next = n
				break
			}
		}
		if next != "" {
			emit(next)
			continue
		}
		for _, n := range cycle(nodes, edges, emitted) {
			emit(n)
		}
	}

	return res
}

// cycle returns, in discovery order, the members of the cycle holding the
// earliest discovered node that can reach itself.
func cycle(nodes []string, edges map[string][]string, emitted map[string]bool) []string {
	for _, n := range nodes {
		if emitted[n] || !reaches(n, n, edges, emitted, map[string]bool{}) {
			continue
		}
		members := []string{}
		for _, m := range nodes {
			if emitted[m] {
				continue
			}
			if m == n || (reaches(n, m, edges, emitted, map[string]bool{}) && reaches(m, n, edges, emitted, map[string]bool{})) {
				members = append(members, m)
			}
		}
		return members
	}
	for _, n := range nodes {
		if !emitted[n] {
			return []string{n}
		}
	}
	return nil
}

func reaches(from, target string, edges map[string][]string, emitted, visited map[string]bool) bool {
	for _, dep := range edges[from] {
		if emitted[dep] {
			continue
		}
		if dep == target {
			return true
		}
		if visited[dep] {
			continue
		}
		visited[dep] = true
		if reaches(dep, target, edges, emitted, visited) {
			return true
		}
	}
	return false
}
