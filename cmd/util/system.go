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

package util

import (
	"path/filepath"

	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/bus"
	pkg "github.com/mudler/ipk/pkg/database"
	"github.com/mudler/ipk/pkg/installer"
	"github.com/mudler/ipk/pkg/repository"
)

func SystemDB(c *types.Config) (types.PackageDatabase, error) {
	switch c.System.DatabaseEngine {
	case types.DatabaseEngineBolt:
		dir, err := c.System.GetSystemDatabaseDirPath()
		if err != nil {
			return nil, err
		}
		return pkg.NewBoltDatabase(filepath.Join(dir, "status.db")), nil
	default:
		return pkg.NewInMemoryDatabase(), nil
	}
}

// IndexCache returns the cache of the last fetched index revision.
func IndexCache(c *types.Config) (*repository.Cache, error) {
	dir, err := c.System.GetListsDirPath()
	if err != nil {
		return nil, err
	}
	return repository.NewCache(dir), nil
}

// NewManager wires the package manager from the loaded configuration.
func NewManager(ctx *types.Context) (*installer.Manager, error) {
	db, err := SystemDB(ctx.Config)
	if err != nil {
		return nil, err
	}
	cache, err := IndexCache(ctx.Config)
	if err != nil {
		return nil, err
	}

	return installer.NewManager(installer.ManagerOptions{
		Context:        ctx,
		Database:       db,
		Cache:          cache,
		Bus:            bus.Manager,
		SolverOptions:  *ctx.Config.GetSolverOptions(),
		NoAction:       ctx.Config.GetGeneral().NoAction,
		ForceReinstall: ctx.Config.GetGeneral().ForceReinstall,
	})
}
