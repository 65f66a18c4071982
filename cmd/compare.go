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
	"os"

	helpers "github.com/mudler/ipk/cmd/helpers"
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/database"
	"github.com/mudler/ipk/pkg/installer"

	"github.com/spf13/cobra"
)

func newCompareVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare-versions <v1> <op> <v2>",
		Short: "Compare two versions",
		Long: `Exits with status 0 when "v1 op v2" holds, 1 otherwise:

	$ ipk compare-versions 1.0-r1 '<<' 1.0-r2

op is one of <= < << = >= > >>`,
		Args: cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext

			// comparing needs no status store
			m, err := installer.NewManager(installer.ManagerOptions{Context: ctx, Database: database.NewInMemoryDatabase()})
			helpers.CheckErr(err)

			ok, err := m.CompareVersions(args[0], args[1], args[2])
			if err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
			if !ok {
				os.Exit(1)
			}
		},
	}
}
