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

package repository

import (
	"encoding/json"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/index"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

const revisionKey = "revision.json.zst"

type cachedRevision struct {
	Records []*types.PackageRecord `json:"records"`
}

// Cache keeps the last published Index revision in the lists directory so
// it survives restarts. Writes go through a temporary file and a rename.
type Cache struct {
	d *diskv.Diskv
}

func NewCache(dir string) *Cache {
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(dir, ".tmp"),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 0,
		}),
	}
}

// Store replaces the cached revision.
func (c *Cache) Store(idx *index.Index) error {
	data, err := json.Marshal(cachedRevision{Records: idx.Records()})
	if err != nil {
		return errors.Wrap(err, "failed encoding index revision")
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	if err := c.d.Write(revisionKey, enc.EncodeAll(data, nil)); err != nil {
		return errors.Wrap(err, "failed writing index cache")
	}
	return nil
}

// Load returns the cached revision, or an empty one when nothing was ever
// stored.
func (c *Cache) Load(v version.Versioner) (*index.Index, error) {
	if !c.d.Has(revisionKey) {
		return index.Empty(v), nil
	}

	compressed, err := c.d.Read(revisionKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading index cache")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.Wrap(err, "corrupted index cache")
	}

	rev := cachedRevision{}
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, errors.Wrap(err, "corrupted index cache")
	}

	return index.New(rev.Records, v), nil
}

// Clean drops the cached revision.
func (c *Cache) Clean() error {
	if !c.d.Has(revisionKey) {
		return nil
	}
	return c.d.Erase(revisionKey)
}
