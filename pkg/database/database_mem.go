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

package database

import (
	"sort"
	"sync"

	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/pkg/errors"
)

// InMemoryDatabase is a status store living only as long as the process.
// It is used for dry runs and tests.
type InMemoryDatabase struct {
	sync.RWMutex
	installed map[string]types.InstalledPackage
}

func NewInMemoryDatabase() types.PackageDatabase {
	return &InMemoryDatabase{installed: map[string]types.InstalledPackage{}}
}

func (db *InMemoryDatabase) GetInstalled(name string) (*types.InstalledPackage, error) {
	db.RLock()
	defer db.RUnlock()

	p, ok := db.installed[name]
	if !ok {
		return nil, types.ErrPackageNotFound
	}
	return &p, nil
}

func (db *InMemoryDatabase) List() ([]*types.InstalledPackage, error) {
	db.RLock()
	defer db.RUnlock()

	res := make([]*types.InstalledPackage, 0, len(db.installed))
	for _, p := range db.installed {
		p := p
		res = append(res, &p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (db *InMemoryDatabase) Snapshot() (types.InstalledSet, error) {
	packs, err := db.List()
	if err != nil {
		return nil, err
	}
	return toSet(packs), nil
}

// Commit applies the operations on a copy and swaps it in only when every
// operation succeeded.
func (db *InMemoryDatabase) Commit(t *types.Transaction) error {
	db.Lock()
	defer db.Unlock()

	next := make(map[string]types.InstalledPackage, len(db.installed))
	for k, v := range db.installed {
		next[k] = v
	}

	for _, op := range t.Ops {
		if op.Package == nil || op.Package.Name == "" {
			return &types.TransactionAbortedError{Err: errors.New("package without a name")}
		}
		switch op.Kind {
		case types.TxPut:
			next[op.Package.Name] = *op.Package
		case types.TxDelete:
			if _, ok := next[op.Package.Name]; !ok {
				return &types.TransactionAbortedError{
					Err: errors.Wrapf(types.ErrPackageNotFound, "failed to delete %s", op.Package.Name),
				}
			}
			delete(next, op.Package.Name)
		default:
			return &types.TransactionAbortedError{Err: errors.Errorf("unknown operation '%s'", op.Kind)}
		}
	}

	db.installed = next
	return nil
}

func (db *InMemoryDatabase) Clean() error {
	db.Lock()
	defer db.Unlock()
	db.installed = map[string]types.InstalledPackage{}
	return nil
}
