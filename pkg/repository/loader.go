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
	"os"
	"path/filepath"
	"regexp"

	"github.com/ghodss/yaml"
	"github.com/google/renameio"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/pkg/errors"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SaveRepository writes the feed definition into the first repos_confdir
// directory, replacing any definition with the same name. The file is
// written to a temporary path and renamed into place.
func SaveRepository(ctx *types.Context, r types.Repository) (string, error) {
	if !validName.MatchString(r.Name) {
		return "", errors.Errorf("invalid repository name '%s'", r.Name)
	}
	if len(r.Urls) == 0 {
		return "", errors.Errorf("repository '%s' has no urls", r.Name)
	}
	if len(ctx.Config.RepositoriesConfDir) == 0 {
		return "", errors.New("no repos_confdir configured")
	}

	rootfs := ""
	if !ctx.Config.ConfigFromHost {
		var err error
		rootfs, err = ctx.Config.GetSystem().GetRootFsAbs()
		if err != nil {
			return "", err
		}
	}

	dir := filepath.Join(rootfs, ctx.Config.RepositoriesConfDir[0])
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrapf(err, "failed creating %s", dir)
	}

	if r.Type == "" {
		r.Type = r.GuessType()
	}
	if r.Priority == 0 {
		r.Priority = types.DefaultRepositoryPriority
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", errors.Wrap(err, "failed encoding repository")
	}

	dst := filepath.Join(dir, r.Name+".yaml")
	if err := renameio.WriteFile(dst, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed writing %s", dst)
	}

	ctx.Debug("Repository", r.Name, "written to", dst)
	return dst, nil
}
