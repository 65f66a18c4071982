// Copyright © 2019 Ettore Di Giacinto <mudler@gentoo.org>
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

package cmd

import (
	"fmt"
	"os"

	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/bus"

	"github.com/spf13/cobra"
)

const (
	IpkCLIVersion = "0.1.0"
)

// Build time and commit information.
//
// ⚠️ WARNING: should only be set by "-ldflags".
var (
	BuildTime   string
	BuildCommit string
)

func cliVersion() string {
	return fmt.Sprintf("%s-g%s %s", IpkCLIVersion, BuildCommit, BuildTime)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "ipk",
	Short:   "Lightweight package manager for opkg feeds",
	Long:    `Resolves, installs and upgrades packages published in opkg style feeds`,
	Version: cliVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := util.DefaultContext
		if err := util.InitContext(ctx); err != nil {
			ctx.Error("failed to load configuration:", err.Error())
			os.Exit(1)
		}

		bus.Manager.Initialize(ctx, ctx.Config.Plugins...)
		if len(ctx.Config.Plugins) > 0 {
			ctx.Debug("Enabled plugins:", ctx.Config.Plugins)
		}
	},
	SilenceErrors: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	release := util.HandleLock(util.DefaultContext)
	err := RootCmd.Execute()
	release()

	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	util.InitViper(util.DefaultContext, RootCmd)

	RootCmd.AddCommand(
		newUpdateCommand(),
		newInstallCommand(),
		newReinstallCommand(),
		newUpgradeCommand(),
		newRemoveCommand(),
		newListCommand(),
		newListInstalledCommand(),
		newListUpgradableCommand(),
		newInfoCommand(),
		newFlagCommand(),
		newCompareVersionsCommand(),
		newWhatProvidesCommand(),
		newWhatDependsCommand(),
		newCleanupCommand(),
	)
}
