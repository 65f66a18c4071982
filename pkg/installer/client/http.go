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
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/mudler/ipk/pkg/api/core/types"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"
	"github.com/pkg/errors"
)

type HttpClient struct {
	RepoData RepoData
	context  *types.Context
}

func NewHttpClient(r RepoData, ctx *types.Context) *HttpClient {
	return &HttpClient{RepoData: r, context: ctx}
}

func (c *HttpClient) newClient() *grab.Client {
	client := grab.NewClient()
	client.UserAgent = "ipk"

	timeout := c.context.Config.GetGeneral().HTTPTimeout
	if timeout > 0 {
		client.HTTPClient = &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		}
	}
	return client
}

func (c *HttpClient) DownloadFile(name string) (string, error) {
	var err error
	var u *url.URL

	temp, err := os.MkdirTemp("", "ipk-http")
	if err != nil {
		return "", errors.Wrap(err, "failed creating temporary directory")
	}
	defer os.RemoveAll(temp)

	client := c.newClient()

	for _, uri := range c.RepoData.Urls {
		u, err = url.Parse(uri)
		if err != nil {
			continue
		}
		u.Path = path.Join(u.Path, name)

		c.context.Debug("Downloading", u.String())

		var req *grab.Request
		req, err = grab.NewRequest(temp, u.String())
		if err != nil {
			continue
		}
		req = req.WithContext(c.context.Context)

		resp := client.Do(req)
		if err = resp.Err(); err != nil {
			c.context.Debug("Failed downloading", u.String(), ":", err.Error())
			continue
		}

		var file *os.File
		file, err = os.CreateTemp("", "HttpClient")
		if err != nil {
			continue
		}
		file.Close()

		err = fileHelper.CopyFile(filepath.Join(temp, filepath.Base(resp.Filename)), file.Name())
		if err != nil {
			os.Remove(file.Name())
			continue
		}
		return file.Name(), nil
	}

	if err == nil {
		err = errors.New("no urls defined")
	}
	return "", errors.Wrapf(err, "repository '%s': failed downloading %s", c.RepoData.Name, name)
}
