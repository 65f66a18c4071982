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
)

func newFlagCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "flag <flag> <pkg1> <pkg2> ...",
		Short: "Flag installed packages",
		Long: `Sets a status flag on installed packages. Available flags:

	hold     keep the package at its installed version
	unhold   release a held package (also: ok)
	user     mark the package as explicitly installed
	auto     mark the package as installed to satisfy dependencies
`,
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{installer.FlagHold, installer.FlagUnhold, installer.FlagOk, installer.FlagUser, installer.FlagAuto},
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			if err := m.Flag(args[0], args[1:]...); err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
		},
	}

	util.AddSystemFlags(c)
	return c
}
