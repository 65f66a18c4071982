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

	"github.com/spf13/cobra"
)

func newUpgradeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "upgrade [pkg1] [pkg2] ...",
		Short:   "Upgrades the system or the given packages",
		Aliases: []string{"u"},
		Long: `Upgrade installed packages to the highest version the index advertises.
Without arguments every installed package which is not held is upgraded.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
			util.BindSolverFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			util.SetSolverConfig(ctx)

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			if _, err := m.Upgrade(args...); err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
		},
	}

	util.AddSystemFlags(c)
	util.AddSolverFlags(c)
	return c
}
