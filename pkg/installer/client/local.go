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
	"os"
	"path/filepath"

	"github.com/mudler/ipk/pkg/api/core/types"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"
	"github.com/pkg/errors"
)

type LocalClient struct {
	RepoData RepoData
	context  *types.Context
}

func NewLocalClient(r RepoData, ctx *types.Context) *LocalClient {
	return &LocalClient{RepoData: r, context: ctx}
}

func (c *LocalClient) DownloadFile(name string) (string, error) {
	var err error

	rootfs := ""
	if !c.context.Config.ConfigFromHost {
		rootfs, err = c.context.Config.GetSystem().GetRootFsAbs()
		if err != nil {
			return "", err
		}
	}

	for _, uri := range c.RepoData.Urls {
		uri = filepath.Join(rootfs, uri)

		src := filepath.Join(uri, name)
		if !fileHelper.Exists(src) {
			err = errors.Errorf("%s not found", src)
			continue
		}

		c.context.Debug("Copying file", name, "from", uri)

		var file *os.File
		file, err = os.CreateTemp("", "LocalClient")
		if err != nil {
			continue
		}
		file.Close()

		err = fileHelper.CopyFile(src, file.Name())
		if err != nil {
			os.Remove(file.Name())
			continue
		}
		return file.Name(), nil
	}

	if err == nil {
		err = errors.New("no urls defined")
	}
	return "", errors.Wrapf(err, "repository '%s': failed copying %s", c.RepoData.Name, name)
}
