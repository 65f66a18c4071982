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
	version "github.com/mudler/ipk/pkg/versioner"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func constraintStrings(cs []version.Constraint) []string {
	res := make([]string, 0, len(cs))
	for _, c := range cs {
		res = append(res, c.String())
	}
	return res
}

func newInstallCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "install <pkg1> <pkg2> ...",
		Short: "Install a package",
		Long: `Install packages together with everything they depend on:

	$ ipk install foo bar@1.0 "baz (>= 2.0)"

The whole installed set is resolved again, so installed packages are upgraded
when a requested package needs a newer version of them.`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
			util.BindSolverFlags(cmd)
			viper.BindPFlag("general.force_reinstall", cmd.Flags().Lookup("force-reinstall"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			util.SetSolverConfig(ctx)
			ctx.Config.GetGeneral().ForceReinstall = viper.GetBool("general.force_reinstall")

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
	c.Flags().Bool("force-reinstall", false, "Reinstall requested packages already installed at the selected version")
	return c
}
