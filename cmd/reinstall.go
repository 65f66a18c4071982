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

func newReinstallCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "reinstall <pkg1> <pkg2> <pkg3>",
		Short: "reinstall a set of packages",
		Long: `Reinstall a group of packages in the system:

	$ ipk reinstall busybox
`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
			util.BindSolverFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			util.SetSolverConfig(ctx)
			ctx.Config.GetGeneral().ForceReinstall = true

			toInstall, err := helpers.ParsePackageStrs(args)
			if err != nil {
				ctx.Fatal("Invalid package string:", err.Error())
			}

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			if _, err := m.Install(constraintStrings(toInstall)...); err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
		},
	}

	util.AddSystemFlags(c)
	util.AddSolverFlags(c)
	return c
}
