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

func newCleanupCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "cleanup",
		Short: "Clean the package lists cache",
		Long:  `Removes the cached index. The next run starts with an empty index until "ipk update".`,
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			util.BindSystemFlags(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext
			util.SetSystemConfig(ctx)

			cache, err := util.IndexCache(ctx.Config)
			helpers.CheckErr(err)
			if err := cache.Clean(); err != nil {
				ctx.Fatal("Error on cleaning the lists cache:", err.Error())
			}
			ctx.Info("Cleaned the lists cache.")
		},
	}

	util.AddSystemFlags(c)
	return c
}
