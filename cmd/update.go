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

func newUpdateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "update",
		Short: "Update the list of available packages",
		Long: `Fetches the package lists of every enabled repository and replaces the
index as a whole. When any repository fails the previous index is kept.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)

			m, err := util.NewManager(ctx)
			helpers.CheckErr(err)

			if err := m.Update(); err != nil {
				ctx.Fatal("Error: " + err.Error())
			}
		},
	}

	util.AddSystemFlags(c)
	return c
}
