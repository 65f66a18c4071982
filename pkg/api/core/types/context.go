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
	"context"
	"os"

	"github.com/mudler/ipk/pkg/api/core/logger"
	"github.com/mudler/ipk/pkg/helpers/terminal"
	"github.com/pterm/pterm"
)

type LogLevel = logger.LogLevel

const (
	ErrorLevel   = logger.ErrorLevel
	WarningLevel = logger.WarningLevel
	InfoLevel    = logger.InfoLevel
	SuccessLevel = logger.SuccessLevel
	FatalLevel   = logger.FatalLevel
	DebugLevel   = logger.DebugLevel
)

// Context carries the configuration and the logger down to every
// operation.
type Context struct {
	context.Context
	*logger.Logger

	Config     *Config
	IsTerminal bool
	AssumeYes  bool
}

func NewContext() *Context {
	l, _ := logger.New()
	return &Context{
		Context:    context.Background(),
		Logger:     l,
		IsTerminal: terminal.IsTerminal(os.Stdout),
		Config: &Config{
			ConfigFromHost: true,
			Logging: LoggingConfig{
				Level: InfoLevel,
			},
			General: GeneralConfig{},
			System: SystemConfig{
				DatabaseEngine: DatabaseEngineBolt,
				DatabasePath:   "/var/lib/ipk",
			},
			Solver: SolverOptions{},
		},
	}
}

// Copy returns a shallow copy of the context owning its own configuration.
func (c *Context) Copy() *Context {
	configCopy := *c.Config
	configCopy.SystemRepositories = append(Repositories{}, c.Config.SystemRepositories...)

	ctx := *c
	ctx.Config = &configCopy
	return &ctx
}

// WithContext returns a copy logging with the given prefix.
func (c *Context) WithContext(prefix string) *Context {
	ctx := c.Copy()
	if l, err := c.Logger.Copy(logger.WithContext(prefix)); err == nil {
		ctx.Logger = l
	}
	return ctx
}

// Init builds the logger from the loaded configuration and reads the
// repository definitions.
func (c *Context) Init() (err error) {
	level := c.Config.GetLogging().Level
	if c.Config.GetGeneral().Debug {
		level = DebugLevel
	}
	if c.Config.GetGeneral().Quiet {
		pterm.DisableStyling()
	}

	opts := []logger.LoggerOptions{
		logger.WithLevel(string(level)),
		logger.WithColor(c.IsTerminal && c.Config.GetLogging().Color && !c.Config.GetGeneral().Quiet),
		logger.WithEmoji(c.Config.GetLogging().EnableEmoji),
		logger.WithFatalWarnings(c.Config.GetGeneral().FatalWarns),
	}

	if c.Config.GetLogging().EnableLogFile && c.Config.GetLogging().Path != "" {
		encoding := "console"
		if c.Config.GetLogging().JsonFormat {
			encoding = "json"
		}
		opts = append(opts, logger.WithFileLogging(c.Config.GetLogging().Path, encoding))
	}

	l, err := logger.New(opts...)
	if err != nil {
		return err
	}
	c.Logger = l

	c.Debug("Colors", c.Config.GetLogging().Color)
	c.Debug("Logging level", c.Config.GetLogging().Level)
	c.Debug("Debug mode", c.Config.GetGeneral().Debug)

	return c.Config.LoadRepositories(c)
}

// Ask prompts for confirmation unless the context assumes yes.
func (c *Context) Ask() bool {
	if c.AssumeYes {
		return true
	}
	return c.Logger.Ask()
}
