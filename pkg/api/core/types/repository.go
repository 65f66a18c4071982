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

package types

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	RepositoryTypeLocal = "local"
	RepositoryTypeHTTP  = "http"

	DefaultRepositoryPriority = 100
)

// Repository is a package feed definition.
type Repository struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Urls        []string `json:"urls" yaml:"urls" mapstructure:"urls"`
	Type        string   `json:"type" yaml:"type" mapstructure:"type"`
	Arch        string   `json:"arch,omitempty" yaml:"arch,omitempty" mapstructure:"arch"`
	// Priority breaks ties between feeds publishing the same version, higher wins
	Priority int  `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`
	Enable   bool `json:"enable" yaml:"enable" mapstructure:"enable"`
}

type Repositories []Repository

func NewEmptyRepository() *Repository {
	return &Repository{
		Urls:   []string{},
		Enable: true,
	}
}

func NewRepository(name, t, descr string, urls []string, priority int, enable bool) *Repository {
	return &Repository{
		Name:        name,
		Description: descr,
		Urls:        urls,
		Type:        t,
		Priority:    priority,
		Enable:      enable,
	}
}

// Enabled reports whether the feed takes part in updates. A feed matching
// the running architecture is always enabled.
func (r *Repository) Enabled() bool {
	if r.Arch != "" && r.Arch == runtime.GOARCH {
		return true
	}
	return r.Enable
}

// GuessType infers the feed type from its first url.
func (r *Repository) GuessType() string {
	for _, u := range r.Urls {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return RepositoryTypeHTTP
		}
		return RepositoryTypeLocal
	}
	return ""
}

func (r *Repository) String() string {
	return fmt.Sprintf("[%s] prio: %d, type: %s, enable: %t, urls: %s",
		r.Name, r.Priority, r.Type, r.Enable, strings.Join(r.Urls, " "))
}

func (r Repositories) Enabled() Repositories {
	res := Repositories{}
	for _, repo := range r {
		if repo.Enabled() {
			res = append(res, repo)
		}
	}
	return res
}
