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
	"fmt"

	"github.com/mudler/ipk/cmd/util"
	"github.com/mudler/ipk/pkg/repository"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewRepoListCommand() *cobra.Command {
	var ans = &cobra.Command{
		Use:   "list [OPTIONS]",
		Short: "List of the configured repositories.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var repoColor, repoText string

			enable, _ := cmd.Flags().GetBool("enabled")
			quiet, _ := cmd.Flags().GetBool("quiet")
			repoType, _ := cmd.Flags().GetString("type")

			for _, repo := range repository.SortByPriority(util.DefaultContext.Config.SystemRepositories) {
				if enable && !repo.Enabled() {
					continue
				}

				if repoType != "" && repo.Type != repoType {
					continue
				}

				if quiet {
					fmt.Println(repo.Name)
					continue
				}

				if repo.Enabled() {
					repoColor = pterm.LightGreen(repo.Name)
				} else {
					repoColor = pterm.LightRed(repo.Name)
				}
				if repo.Description != "" {
					repoText = pterm.LightYellow(repo.Description)
				} else if len(repo.Urls) > 0 {
					repoText = pterm.LightYellow(repo.Urls[0])
				}

				fmt.Printf("%s (prio %d)\n  %s\n", repoColor, repo.Priority, repoText)
			}
		},
	}

	ans.Flags().Bool("enabled", false, "Show only enable repositories.")
	ans.Flags().BoolP("quiet", "q", false, "Show only name of the repositories.")
	ans.Flags().StringP("type", "t", "", "Filter repositories of a specific type")

	return ans
}
