// Copyright © 2021 Ettore Di Giacinto <mudler@mocaccino.org>
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
	"encoding/json"
	"fmt"
	"os"

	"github.com/marcsauter/single"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mudler/ipk/pkg/api/core/types"
)

var DefaultContext = types.NewContext()

var lockedCommands = []string{"update", "install", "reinstall", "upgrade", "remove", "flag"}

func BindSystemFlags(cmd *cobra.Command) {
	viper.BindPFlag("system.database_path", cmd.Flags().Lookup("system-dbpath"))
	viper.BindPFlag("system.rootfs", cmd.Flags().Lookup("system-target"))
	viper.BindPFlag("system.database_engine", cmd.Flags().Lookup("system-engine"))
}

// AddSystemFlags registers the flags bound by BindSystemFlags.
func AddSystemFlags(cmd *cobra.Command) {
	cmd.Flags().String("system-dbpath", "", "System db path")
	cmd.Flags().String("system-target", "", "System rootpath")
	cmd.Flags().String("system-engine", "", "System DB engine")
}

func BindSolverFlags(cmd *cobra.Command) {
	viper.BindPFlag("solver.type", cmd.Flags().Lookup("solver-type"))
}

func AddSolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("solver-type", "", "Fallback for conflicts the greedy resolution cannot settle ( Defaults none, available: "+types.SATResolverType+" )")
}

func SetSystemConfig(ctx *types.Context) {
	dbpath := viper.GetString("system.database_path")
	rootfs := viper.GetString("system.rootfs")
	engine := viper.GetString("system.database_engine")

	ctx.Config.System.DatabaseEngine = engine
	ctx.Config.System.DatabasePath = dbpath
	ctx.Config.System.SetRootFS(rootfs)
}

func SetSolverConfig(ctx *types.Context) *types.SolverOptions {
	ctx.Config.GetSolverOptions().Type = viper.GetString("solver.type")
	return ctx.Config.GetSolverOptions()
}

// HandleLock takes the process lock when the invoked command mutates the
// system. The returned function releases it.
func HandleLock(c *types.Context) func() {
	if os.Getenv("IPK_NOLOCK") == "true" || len(os.Args) < 2 {
		return func() {}
	}

	for _, lockedCmd := range lockedCommands {
		if os.Args[1] != lockedCmd {
			continue
		}
		s := single.New("ipk")
		if err := s.CheckLock(); err != nil && err == single.ErrAlreadyRunning {
			c.Fatal("another instance of the app is already running, exiting")
		} else if err != nil {
			// Another error occurred, might be worth handling it as well
			c.Fatal("failed to acquire exclusive app lock:", err.Error())
		}
		return func() { s.TryUnlock() }
	}
	return func() {}
}

// Print renders v in the requested output format on stdout.
func Print(format string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(v)
	case "json":
		data, err = json.Marshal(v)
	default:
		return errors.Errorf("unknown output format '%s'", format)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
