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

import "go.etcd.io/bbolt"

type schemaMigration func(tx *bbolt.Tx) error

var migrations = []schemaMigration{migrateStatusBucket}

// LegacyStatusBucket held the installed entries before they were stored
// under the storm type bucket.
const LegacyStatusBucket = "Status"

var migrateStatusBucket schemaMigration = func(tx *bbolt.Tx) error {
	// IF the old bucket is there, move its entries to the current one
	b := tx.Bucket([]byte(LegacyStatusBucket))
	if b == nil {
		return nil
	}

	newB, err := tx.CreateBucketIfNotExists([]byte(installedBucket))
	if err != nil {
		return err
	}
	err = b.ForEach(func(k, v []byte) error {
		if v == nil {
			return nil
		}
		// entries written by the current schema win
		if newB.Get(k) != nil {
			return nil
		}
		return newB.Put(k, v)
	})
	if err != nil {
		return err
	}

	return tx.DeleteBucket([]byte(LegacyStatusBucket))
}

func migrate(db *bbolt.DB) error {
	return db.Update(func(tx *bbolt.Tx) error {
		for _, m := range migrations {
			if err := m(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
