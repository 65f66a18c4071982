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
	"sync/atomic"

	"github.com/mudler/ipk/pkg/api/core/types"
)

// Holder publishes the current revision. Readers always see one whole
// revision: Replace swaps the pointer, it never edits a revision.
type Holder struct {
	current atomic.Pointer[Index]
}

func NewHolder(initial *Index) *Holder {
	h := &Holder{}
	if initial == nil {
		initial = Empty(nil)
	}
	h.current.Store(initial)
	return h
}

// Current returns the revision in place. Keep the returned value for the
// whole duration of a resolution to work on a consistent snapshot.
func (h *Holder) Current() *Index {
	return h.current.Load()
}

// Replace publishes next and returns the revision it superseded.
func (h *Holder) Replace(next *Index) *Index {
	return h.current.Swap(next)
}

func (h *Holder) Lookup(name string) []*types.PackageRecord {
	return h.Current().Lookup(name)
}
