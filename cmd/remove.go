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
	helpers "github.com/mudler/ipk/cmd/helpers"
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/installer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRemoveCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "remove <pkg> <pkg2> ...",
		Short:   "Remove a package or a list of packages",
		Long:    `Remove packages. Installed packages requiring them make the removal fail unless --recursive is given.`,
		Aliases: []string{"rm", "uninstall"},
		Args:    cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
			viper.BindPFlag("yes", cmd.Flags().Lookup("yes"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			ctx.AssumeYes = viper.GetBool("yes")

			recursive, _ := cmd.Flags().GetBool("force-removal-of-dependent-packages")
			autoremove, _ := cmd.Flags().GetBool("autoremove")
			opts := installer.RemoveOptions{Recursive: recursive, AutoRemove: autoremove}

			if (recursive || autoremove) && !ctx.Config.GetGeneral().NoAction {
				// show what goes away before touching anything
				dry := ctx.Copy()
				dry.Config.GetGeneral().NoAction = true
				preview, err := util.NewManager(dry)
				helpers.CheckErr(err)
				if _, err := preview.Remove(opts, args...); err != nil {
					ctx.Fatal("Error: " + err.Error())
				}
				if !ctx.Ask() {
					ctx.Info("Aborted.")
					return
				}
			}

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			if _, err := m.Remove(opts, args...); err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
		},
	}

	util.AddSystemFlags(c)
	c.Flags().Bool("force-removal-of-dependent-packages", false, "Remove the installed packages depending on the given ones too")
	c.Flags().Bool("autoremove", false, "Remove automatically installed packages no longer required")
	c.Flags().BoolP("yes", "y", false, "Don't ask questions")
	return c
}
