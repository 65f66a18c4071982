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
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/pgzip"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/index"
	"github.com/mudler/ipk/pkg/installer/client"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/pkg/errors"
)

// FetchFeed downloads the package list of a feed, preferring the plain
// Packages file over Packages.gz, and returns its records tagged with the
// feed name.
func FetchFeed(ctx *types.Context, repo types.Repository) ([]*types.PackageRecord, error) {
	c, err := client.New(repo, ctx)
	if err != nil {
		return nil, err
	}

	var records []*types.PackageRecord
	file, err := c.DownloadFile(PackagesFile)
	if err == nil {
		defer os.Remove(file)
		records, err = parseFile(file, false)
	} else {
		ctx.Debug("Repository", repo.Name, "has no plain package list, trying", PackagesGzFile)
		gzFile, gzErr := c.DownloadFile(PackagesGzFile)
		if gzErr != nil {
			return nil, multierror.Append(err, gzErr)
		}
		defer os.Remove(gzFile)
		records, err = parseFile(gzFile, true)
	}
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		r.Repository = repo.Name
	}
	return records, nil
}

func parseFile(path string, compressed bool) ([]*types.PackageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening package list")
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "failed decompressing package list")
		}
		defer gz.Close()
		r = gz
	}

	return ParseControl(r)
}

// SortByPriority orders feeds by descending priority, keeping the
// configuration order between feeds of equal priority.
func SortByPriority(repos types.Repositories) types.Repositories {
	res := append(types.Repositories{}, repos...)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Priority > res[j].Priority
	})
	return res
}

// BuildRevision fetches every enabled feed and builds a new Index revision
// out of them. It fails as a whole with an IndexUnavailableError carrying
// every per-feed failure when any feed could not be read.
func BuildRevision(ctx *types.Context, repos types.Repositories, v version.Versioner) (*index.Index, error) {
	var result *multierror.Error
	all := []*types.PackageRecord{}

	for _, repo := range SortByPriority(repos.Enabled()) {
		ctx.Info("Fetching repository", repo.Name)
		records, err := FetchFeed(ctx, repo)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "repository '%s'", repo.Name))
			continue
		}
		ctx.Debug("Repository", repo.Name, "advertises", len(records), "packages")
		all = append(all, records...)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, &types.IndexUnavailableError{Err: err}
	}

	return index.New(all, v), nil
}
