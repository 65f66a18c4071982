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
	"os"
	"sort"
	"sync"
	"time"

	storm "github.com/asdine/storm"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/multierr"
)

// storm keeps structs in a bucket named after their type
const installedBucket = "InstalledPackage"

type BoltDatabase struct {
	sync.Mutex
	Path string
}

func NewBoltDatabase(path string) types.PackageDatabase {
	return &BoltDatabase{Path: path}
}

func (db *BoltDatabase) open() (*storm.DB, error) {
	bolt, err := storm.Open(db.Path, storm.BoltOptions(0600, &bbolt.Options{Timeout: 30 * time.Second}))
	if err != nil {
		return nil, errors.Wrap(err, "Error opening boltdb "+db.Path)
	}
	if err := migrate(bolt.Bolt); err != nil {
		bolt.Close()
		return nil, errors.Wrap(err, "failed migrating "+db.Path)
	}
	return bolt, nil
}

func (db *BoltDatabase) GetInstalled(name string) (*types.InstalledPackage, error) {
	db.Lock()
	defer db.Unlock()

	bolt, err := db.open()
	if err != nil {
		return nil, err
	}
	defer bolt.Close()

	p := &types.InstalledPackage{}
	err = bolt.One("Name", name, p)
	if err == storm.ErrNotFound {
		return nil, types.ErrPackageNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading %s", name)
	}
	return p, nil
}

func (db *BoltDatabase) List() ([]*types.InstalledPackage, error) {
	db.Lock()
	defer db.Unlock()

	bolt, err := db.open()
	if err != nil {
		return nil, err
	}
	defer bolt.Close()

	var packs []*types.InstalledPackage
	if err := bolt.All(&packs); err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "failed listing installed packages")
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs, nil
}

func (db *BoltDatabase) Snapshot() (types.InstalledSet, error) {
	packs, err := db.List()
	if err != nil {
		return nil, err
	}
	return toSet(packs), nil
}

// Commit runs the whole transaction inside a single bolt write
// transaction.
func (db *BoltDatabase) Commit(t *types.Transaction) error {
	db.Lock()
	defer db.Unlock()

	bolt, err := db.open()
	if err != nil {
		return &types.TransactionAbortedError{Err: err}
	}
	defer bolt.Close()

	tx, err := bolt.Begin(true)
	if err != nil {
		return &types.TransactionAbortedError{Err: err}
	}

	for _, op := range t.Ops {
		switch op.Kind {
		case types.TxPut:
			err = tx.Save(op.Package)
		case types.TxDelete:
			err = tx.DeleteStruct(&types.InstalledPackage{Name: op.Package.Name})
		default:
			err = errors.Errorf("unknown operation '%s'", op.Kind)
		}
		if err != nil {
			err = errors.Wrapf(err, "failed to %s %s", op.Kind, op.Package.Name)
			return &types.TransactionAbortedError{Err: multierr.Append(err, tx.Rollback())}
		}
	}

	if err := tx.Commit(); err != nil {
		return &types.TransactionAbortedError{Err: errors.Wrap(err, "commit failed")}
	}
	return nil
}

func (db *BoltDatabase) Clean() error {
	db.Lock()
	defer db.Unlock()
	return os.RemoveAll(db.Path)
}

func toSet(packs []*types.InstalledPackage) types.InstalledSet {
	set := types.InstalledSet{}
	for _, p := range packs {
		set[p.Name] = p
	}
	return set
}
