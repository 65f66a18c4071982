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

package client

import (
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/pkg/errors"
)

// RepoData is the part of a feed definition the clients need.
type RepoData struct {
	Name string
	Urls []string
}

// Client fetches single files published by a feed. The urls are mirrors,
// tried in order until one serves the file.
type Client interface {
	DownloadFile(name string) (string, error)
}

// New returns the client matching the feed type.
func New(r types.Repository, ctx *types.Context) (Client, error) {
	data := RepoData{Name: r.Name, Urls: r.Urls}

	t := r.Type
	if t == "" {
		t = r.GuessType()
	}

	switch t {
	case types.RepositoryTypeLocal:
		return NewLocalClient(data, ctx), nil
	case types.RepositoryTypeHTTP:
		return NewHttpClient(data, ctx), nil
	}
	return nil, errors.Errorf("repository '%s': unsupported type '%s'", r.Name, r.Type)
}
