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

	helpers "github.com/mudler/ipk/cmd/helpers"
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/api/core/types"

	"github.com/spf13/cobra"
)

func printRecords(records []*types.PackageRecord, output string) {
	if output != "terminal" {
		helpers.CheckErr(util.Print(output, records))
		return
	}
	for _, r := range records {
		if r.Description != "" {
			fmt.Printf("%s - %s - %s\n", r.Name, r.Version, r.Description)
		} else {
			fmt.Printf("%s - %s\n", r.Name, r.Version)
		}
	}
}

func newListCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list [glob]",
		Short: "List available packages",
		Args:  cobra.MaximumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			printRecords(m.List(pattern), output)
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	return c
}

func newListInstalledCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list-installed [glob]",
		Short: "List installed packages",
		Args:  cobra.MaximumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			installed, err := m.ListInstalled(pattern)
			helpers.CheckErr(err)

			if output != "terminal" {
				helpers.CheckErr(util.Print(output, installed))
				return
			}
			for _, p := range installed {
				fmt.Printf("%s - %s\n", p.Name, p.Version)
			}
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	return c
}

func newListUpgradableCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list-upgradable",
		Short: "List installed and upgradable packages",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			upgradable, err := m.ListUpgradable()
			helpers.CheckErr(err)

			if output != "terminal" {
				helpers.CheckErr(util.Print(output, upgradable))
				return
			}
			for _, u := range upgradable {
				fmt.Printf("%s - %s - %s\n", u.Name, u.Installed, u.Available)
			}
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	return c
}
