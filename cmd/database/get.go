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

package cmd_database

import (
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/api/core/types"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewDatabaseGetCommand() *cobra.Command {
	var c = &cobra.Command{
		Use:   "get <package>",
		Short: "Get a package in the system DB as yaml",
		Long: `Get a package in the system database in the YAML format:

		$ ipk database get foo`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			output, _ := cmd.Flags().GetString("output")
			util.SetSystemConfig(util.DefaultContext)

			systemDB, err := util.SystemDB(util.DefaultContext.Config)
			if err != nil {
				util.DefaultContext.Fatal(err.Error())
			}

			for _, a := range args {
				p, err := systemDB.GetInstalled(a)
				if errors.Is(err, types.ErrPackageNotFound) {
					util.DefaultContext.Warning("Package", a, "is not installed")
					continue
				}
				if err != nil {
					util.DefaultContext.Fatal(err.Error())
				}
				if err := util.Print(output, p); err != nil {
					util.DefaultContext.Fatal(err.Error())
				}
			}
		},
	}
	util.AddSystemFlags(c)
	c.Flags().StringP("output", "o", "yaml", "Output format ( Defaults: yaml, available: json,yaml )")

	return c
}
