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

package helpers

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/repository"
	version "github.com/mudler/ipk/pkg/versioner"
)

const charset = "abcdefghijklmnopqrstuvwxyz"

var seededRand *rand.Rand = rand.New(
	rand.NewSource(time.Now().UnixNano()))

func StringWithCharset(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

func String(length int) string {
	return StringWithCharset(length, charset)
}

// RandomRecord returns a record with a random name and version and no
// dependencies.
func RandomRecord() *types.PackageRecord {
	return &types.PackageRecord{
		Name:    String(5),
		Version: strconv.Itoa(seededRand.Intn(100)) + ".0",
	}
}

// Record builds a package record from the Depends field syntax. It panics
// on malformed constraints, fixtures are expected to be well formed.
func Record(name, ver, depends string, provides ...string) *types.PackageRecord {
	cs, err := version.ParseConstraints(depends)
	if err != nil {
		panic(err)
	}
	return &types.PackageRecord{
		Name:     name,
		Version:  ver,
		Depends:  cs,
		Provides: provides,
		Filename: name + "_" + ver + "_all.ipk",
	}
}

// WriteFeed publishes records as a local feed in dir: a plain Packages list,
// or only Packages.gz when compressed is set. Any previous list is removed
// so the feed always reflects the last call.
func WriteFeed(dir string, compressed bool, records ...*types.PackageRecord) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	os.Remove(filepath.Join(dir, repository.PackagesFile))
	os.Remove(filepath.Join(dir, repository.PackagesGzFile))

	name := repository.PackagesFile
	if compressed {
		name = repository.PackagesGzFile
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	if !compressed {
		return repository.WriteControl(f, records)
	}

	gz := pgzip.NewWriter(f)
	if err := repository.WriteControl(gz, records); err != nil {
		return err
	}
	return gz.Close()
}
