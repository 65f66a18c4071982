// Copyright © 2019 Ettore Di Giacinto <mudler@gentoo.org>
//                  Daniele Rondina <geaaru@sabayonlinux.org>
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

package cmd_repo

import (
	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/repository"

	"github.com/spf13/cobra"
)

func NewRepoAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [OPTIONS] <name> <url> [url...]",
		Short: "Add a repository to the system",
		Args:  cobra.MinimumNArgs(2),
		Long: `
Adds a repository to the system. Every url is a mirror of the same feed, tried in order:

 ipk repo add main https://downloads.example.org/packages/base

 ipk repo add local /srv/feed --priority 200
 `,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := util.DefaultContext

			yes, _ := cmd.Flags().GetBool("yes")
			desc, _ := cmd.Flags().GetString("description")
			t, _ := cmd.Flags().GetString("type")
			prio, _ := cmd.Flags().GetInt("priority")
			arch, _ := cmd.Flags().GetString("arch")

			r := types.NewRepository(args[0], t, desc, args[1:], prio, true)
			r.Arch = arch

			ctx.Info("Adding repository", r.String())
			if !yes && !ctx.Ask() {
				ctx.Info("Aborted by user")
				return
			}

			file, err := repository.SaveRepository(ctx, *r)
			if err != nil {
				ctx.Fatal(err)
			}
			ctx.Infof("Repository written to %s", file)
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Assume yes to questions")
	cmd.Flags().String("description", "", "Repository description")
	cmd.Flags().String("type", "", "Repository type ( Defaults guessed from the url, available: local,http )")
	cmd.Flags().String("arch", "", "Architecture the repository is always enabled on")
	cmd.Flags().IntP("priority", "p", types.DefaultRepositoryPriority, "repository prio")
	return cmd
}
