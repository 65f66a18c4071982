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

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	extensions "github.com/mudler/cobra-extensions"
	"github.com/mudler/ipk/pkg/api/core/types"
	fileHelper "github.com/mudler/ipk/pkg/helpers/file"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	IpkEnvPrefix = "IPK"
)

var cfgFile string

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults(viper.GetViper())
	// ipk supports these priorities on read configuration file:
	// - command line option (if available)
	// - $PWD/.ipk.yaml
	// - $HOME/.ipk.yaml
	// - /etc/ipk/ipk.yaml
	//
	// Note: currently a single viper instance support only one config name.

	viper.SetEnvPrefix(IpkEnvPrefix)
	viper.SetConfigType("yaml")

	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Retrieve pwd directory
		pwdDir, err := os.Getwd()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		homeDir, _ := os.UserHomeDir()

		if fileHelper.Exists(filepath.Join(pwdDir, ".ipk.yaml")) || (homeDir != "" && fileHelper.Exists(filepath.Join(homeDir, ".ipk.yaml"))) {
			viper.AddConfigPath(".")
			if homeDir != "" {
				viper.AddConfigPath(homeDir)
			}
			viper.SetConfigName(".ipk")
		} else {
			viper.SetConfigName("ipk")
			viper.AddConfigPath("/etc/ipk")
		}
	}

	viper.AutomaticEnv() // read in environment variables that match

	// Create EnvKey Replacer for handle complex structure
	replacer := strings.NewReplacer(".", "__")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetTypeByDefaultValue(true)
	// If a config file is found, read it in.
	viper.ReadInConfig()
}

// InitContext inits the context by parsing the configurations from viper
// this is meant to be run before each command to be able to parse any override from
// the CLI/ENV
func InitContext(ctx *types.Context) (err error) {
	err = viper.Unmarshal(&ctx.Config)
	if err != nil {
		return
	}

	// Inits the context with the configurations loaded
	// It reads system repositories and sets logging
	err = ctx.Init()
	if err != nil {
		return
	}

	// yes is not mapped in our configs
	ctx.AssumeYes = viper.GetBool("yes")
	ctx.Debug("Using config file:", viper.ConfigFileUsed())
	return
}

func setDefaults(viper *viper.Viper) {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.enable_logfile", false)
	viper.SetDefault("logging.path", "/var/log/ipk.log")
	viper.SetDefault("logging.json_format", false)
	viper.SetDefault("logging.enable_emoji", true)
	viper.SetDefault("logging.color", true)

	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.quiet", false)
	viper.SetDefault("general.fatal_warnings", false)
	viper.SetDefault("general.http_timeout", 360)
	viper.SetDefault("general.noaction", false)
	viper.SetDefault("general.force_reinstall", false)

	viper.SetDefault("system.database_engine", types.DatabaseEngineBolt)
	viper.SetDefault("system.database_path", "/var/lib/ipk")
	viper.SetDefault("system.lists_path", "")
	viper.SetDefault("system.rootfs", "/")
	viper.SetDefault("system.version_scheme", "debian")

	viper.SetDefault("repos_confdir", []string{"/etc/ipk/repos.conf.d"})
	viper.SetDefault("config_from_host", true)
	viper.SetDefault("repositories", []string{})

	viper.SetDefault("solver.type", "")
}

// InitViper inits a new viper
// this is meant to be run just once at beginning to setup the root command
func InitViper(ctx *types.Context, RootCmd *cobra.Command) {
	cobra.OnInitialize(initConfig)
	pflags := RootCmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ipk.yaml)")
	pflags.BoolP("debug", "d", false, "verbose output")
	pflags.BoolP("quiet", "q", false, "quiet output")
	pflags.Bool("fatal", false, "Enables Warnings to exit")
	pflags.Bool("enable-logfile", false, "Enable log to file")
	pflags.Bool("color", ctx.Config.GetLogging().Color, "Enable/Disable color.")
	pflags.Bool("emoji", ctx.Config.GetLogging().EnableEmoji, "Enable/Disable emoji.")
	pflags.StringP("logfile", "l", ctx.Config.GetLogging().Path,
		"Logfile path. Empty value disable log to file.")
	pflags.StringSlice("plugin", []string{}, "A list of runtime plugins to load")
	pflags.Bool("noaction", false, "Compute and print the plan without applying it")

	viper.BindPFlag("logging.color", pflags.Lookup("color"))
	viper.BindPFlag("logging.enable_emoji", pflags.Lookup("emoji"))
	viper.BindPFlag("logging.enable_logfile", pflags.Lookup("enable-logfile"))
	viper.BindPFlag("logging.path", pflags.Lookup("logfile"))

	viper.BindPFlag("general.debug", pflags.Lookup("debug"))
	viper.BindPFlag("general.quiet", pflags.Lookup("quiet"))
	viper.BindPFlag("general.fatal_warnings", pflags.Lookup("fatal"))
	viper.BindPFlag("general.noaction", pflags.Lookup("noaction"))
	viper.BindPFlag("plugin", pflags.Lookup("plugin"))

	// Extensions must be binary with the "ipk-" prefix to be able to be shown in the help.
	// we also accept extensions in the relative path where ipk is being started, "extensions/"
	exts := extensions.Discover("ipk", "extensions")
	for _, ex := range exts {
		cobraCmd := ex.CobraCommand()
		RootCmd.AddCommand(cobraCmd)
	}
}
