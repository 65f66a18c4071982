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

	helpers "github.com/mudler/ipk/cmd/helpers"
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/repository"

	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "info <pkg>",
		Short: "Display information about a package",
		Long: `Shows the installed status of a package and every version the index advertises.
The default output follows the control file format of the package lists.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)
			output, _ := cmd.Flags().GetString("output")

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			info, err := m.Info(args[0])
			if err != nil {
				ctx.Fatal("Error: " + err.Error())
			}

			if output != "terminal" {
				helpers.CheckErr(util.Print(output, info))
				return
			}

			if info.Installed != nil {
				helpers.CheckErr(repository.WriteControl(os.Stdout, []*types.PackageRecord{info.Installed.Record()}))
				fmt.Printf("Status: %s installed\n\n", info.Installed.Flags())
			}
			helpers.CheckErr(repository.WriteControl(os.Stdout, info.Available))
		},
	}

	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "terminal", "Output format ( Defaults: terminal, available: json,yaml )")
	return c
}
