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
	"os"
	"path/filepath"
	"regexp"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"
	version "github.com/mudler/ipk/pkg/versioner"

	"github.com/pkg/errors"
	yamlv2 "gopkg.in/yaml.v2"
)

const (
	SATResolverType = "sat"

	DatabaseEngineBolt   = "boltdb"
	DatabaseEngineMemory = "memory"
)

type LoggingConfig struct {
	// Path of the logfile
	Path string `yaml:"path,omitempty" mapstructure:"path"`
	// Enable/Disable logging to file
	EnableLogFile bool `yaml:"enable_logfile,omitempty" mapstructure:"enable_logfile"`
	// Enable JSON format logging in file
	JsonFormat bool `yaml:"json_format,omitempty" mapstructure:"json_format"`

	// Log level
	Level LogLevel `yaml:"level,omitempty" mapstructure:"level"`

	// Enable emoji
	EnableEmoji bool `yaml:"enable_emoji,omitempty" mapstructure:"enable_emoji"`
	// Enable/Disable color in logging
	Color bool `yaml:"color,omitempty" mapstructure:"color"`
}

type GeneralConfig struct {
	Debug          bool `yaml:"debug,omitempty" mapstructure:"debug"`
	Quiet          bool `yaml:"quiet,omitempty" mapstructure:"quiet"`
	FatalWarns     bool `yaml:"fatal_warnings,omitempty" mapstructure:"fatal_warnings"`
	HTTPTimeout    int  `yaml:"http_timeout,omitempty" mapstructure:"http_timeout"`
	NoAction       bool `yaml:"noaction,omitempty" mapstructure:"noaction"`
	ForceReinstall bool `yaml:"force_reinstall,omitempty" mapstructure:"force_reinstall"`
}

type SolverOptions struct {
	// Type selects a fallback for conflicts the greedy resolver cannot
	// settle. Empty disables it.
	Type string `yaml:"type,omitempty" mapstructure:"type"`
}

func (opts SolverOptions) ResolverIsSet() bool {
	return opts.Type == SATResolverType
}

type SystemConfig struct {
	DatabaseEngine string `yaml:"database_engine" mapstructure:"database_engine"`
	DatabasePath   string `yaml:"database_path" mapstructure:"database_path"`
	ListsPath      string `yaml:"lists_path" mapstructure:"lists_path"`
	Rootfs         string `yaml:"rootfs" mapstructure:"rootfs"`
	VersionScheme  string `yaml:"version_scheme,omitempty" mapstructure:"version_scheme"`
}

func (s *SystemConfig) SetRootFS(path string) error {
	p, err := fileHelper.Rel2Abs(path)
	if err != nil {
		return err
	}

	s.Rootfs = p
	return nil
}

func (s *SystemConfig) GetRootFsAbs() (string, error) {
	return filepath.Abs(s.Rootfs)
}

func (s *SystemConfig) dir(p string) (string, error) {
	dir := filepath.Join(s.Rootfs, p)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrapf(err, "failed creating %s", dir)
	}
	return dir, nil
}

// GetSystemDatabaseDirPath returns the directory holding the status
// database, created if missing.
func (s *SystemConfig) GetSystemDatabaseDirPath() (string, error) {
	return s.dir(s.DatabasePath)
}

// GetListsDirPath returns the directory caching the index, created if
// missing.
func (s *SystemConfig) GetListsDirPath() (string, error) {
	if s.ListsPath == "" {
		return s.dir(filepath.Join(s.DatabasePath, "lists"))
	}
	return s.dir(s.ListsPath)
}

type Config struct {
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	General GeneralConfig `yaml:"general,omitempty" mapstructure:"general"`
	System  SystemConfig  `yaml:"system" mapstructure:"system"`
	Solver  SolverOptions `yaml:"solver,omitempty" mapstructure:"solver"`

	RepositoriesConfDir []string     `yaml:"repos_confdir,omitempty" mapstructure:"repos_confdir"`
	ConfigFromHost      bool         `yaml:"config_from_host,omitempty" mapstructure:"config_from_host"`
	SystemRepositories  Repositories `yaml:"repositories,omitempty" mapstructure:"repositories"`
	Plugins             []string     `yaml:"plugin,omitempty" mapstructure:"plugin"`
}

func (c *Config) GetLogging() *LoggingConfig {
	return &c.Logging
}

func (c *Config) GetGeneral() *GeneralConfig {
	return &c.General
}

func (c *Config) GetSystem() *SystemConfig {
	return &c.System
}

func (c *Config) GetSolverOptions() *SolverOptions {
	return &c.Solver
}

func (c *Config) YAML() ([]byte, error) {
	return yamlv2.Marshal(c)
}

// Versioner returns the versioner for the configured scheme.
func (c *Config) Versioner() (version.Versioner, error) {
	return version.NewVersioner(c.System.VersionScheme)
}

func (c *Config) AddSystemRepository(r Repository) {
	c.SystemRepositories = append(c.SystemRepositories, r)
}

func (c *Config) GetSystemRepository(name string) (*Repository, error) {
	for idx, repo := range c.SystemRepositories {
		if repo.Name == name {
			return &c.SystemRepositories[idx], nil
		}
	}
	return nil, errors.New("Repository " + name + " not found")
}

var regexRepo = regexp.MustCompile(`.yml$|.yaml$`)

// LoadRepositories reads the feed definitions found in the repos_confdir
// directories. Unreadable or invalid files are skipped with a warning.
func (c *Config) LoadRepositories(ctx *Context) error {
	var err error
	rootfs := ""

	// Respect the rootfs param on read repositories
	if !c.ConfigFromHost {
		rootfs, err = c.GetSystem().GetRootFsAbs()
		if err != nil {
			return err
		}
	}

	for _, rdir := range c.RepositoriesConfDir {
		rdir = filepath.Join(rootfs, rdir)

		ctx.Debug("Parsing Repository Directory", rdir, "...")

		files, err := os.ReadDir(rdir)
		if err != nil {
			ctx.Debug("Skip dir", rdir, ":", err.Error())
			continue
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}

			if !regexRepo.MatchString(file.Name()) {
				ctx.Debug("File", file.Name(), "skipped.")
				continue
			}

			content, err := os.ReadFile(filepath.Join(rdir, file.Name()))
			if err != nil {
				ctx.Warning("On read file", file.Name(), ":", err.Error())
				ctx.Warning("File", file.Name(), "skipped.")
				continue
			}

			r, err := LoadRepository(content)
			if err != nil {
				ctx.Warning("On parse file", file.Name(), ":", err.Error())
				ctx.Warning("File", file.Name(), "skipped.")
				continue
			}

			if r.Name == "" || len(r.Urls) == 0 {
				ctx.Warning("Invalid repository ", file.Name())
				ctx.Warning("File", file.Name(), "skipped.")
				continue
			}

			c.AddSystemRepository(*r)
		}
	}
	return nil
}

// LoadRepository parses a feed definition and fills in the defaults.
func LoadRepository(data []byte) (*Repository, error) {
	ans := NewEmptyRepository()
	if err := yaml.Unmarshal(data, ans); err != nil {
		return nil, err
	}

	defaults := Repository{
		Type:     ans.GuessType(),
		Priority: DefaultRepositoryPriority,
	}
	if err := mergo.Merge(ans, defaults); err != nil {
		return nil, errors.Wrap(err, "failed applying repository defaults")
	}
	return ans, nil
}
