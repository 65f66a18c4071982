// Copyright © 2020 Ettore Di Giacinto <mudler@gentoo.org>
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

	"github.com/spf13/cobra"
)

func NewDatabaseRemoveCommand() *cobra.Command {
	var ans = &cobra.Command{
		Use:   "remove [package1] [package2] ...",
		Short: "Remove a package from the system DB (forcefully - you normally don't want to do that)",
		Long: `Removes a package in the system database without checking its dependents:

		$ ipk database remove foo

This commands takes multiple packages as arguments and prunes their entries from the system database
in a single transaction.
`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			util.SetSystemConfig(util.DefaultContext)

			systemDB, err := util.SystemDB(util.DefaultContext.Config)
			if err != nil {
				util.DefaultContext.Fatal(err.Error())
			}

			tx := types.NewTransaction()
			for _, a := range args {
				if _, err := systemDB.GetInstalled(a); err != nil {
					util.DefaultContext.Warning("Skipping", a, ":", err.Error())
					continue
				}
				tx.Delete(&types.InstalledPackage{Name: a})
			}
			if tx.Empty() {
				return
			}

			if err := systemDB.Commit(tx); err != nil {
				util.DefaultContext.Fatal("Failed removing ", args, ": ", err.Error())
			}
		},
	}
	util.AddSystemFlags(ans)

	return ans
}
