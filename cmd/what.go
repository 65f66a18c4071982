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

func newWhatProvidesCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "whatprovides <name>",
		Short: "List the packages providing a name",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			providers, err := m.WhatProvides(args[0])
			helpers.CheckErr(err)
			printRecords(providers, output)
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	return c
}

func newWhatDependsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "whatdepends <name>",
		Short: "List the packages depending on a name",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")
			installed, _ := cmd.Flags().GetBool("installed")

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			dependents, err := m.WhatDepends(args[0], installed)
			helpers.CheckErr(err)
			printRecords(dependents, output)
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	c.Flags().BoolP("installed", "A", false, "Search the installed packages instead of the index")
	return c
}
