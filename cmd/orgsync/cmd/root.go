// Copyright © 2026 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orgsync",
	Short: "Orgsync synchronizes org metadata with a local project",
	Long: `Orgsync drives multi-stage metadata operations against a remote org
by delegating individual steps to the org CLI.

It lists and describes metadata types, runs SOQL queries and retrieves the
"special" metadata types (profiles, permission sets, translations, objects)
through a disposable scratch project, copying the retrieved files back over
the local project tree.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if orgsyncFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note: *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if orgsyncFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("apiversion", "62.0")
	viper.SetDefault("exe", "sfdx")
	viper.SetDefault("loglevel", "info")
	if os.Getenv("ORGSYNC_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("ORGSYNC_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.orgsync")
		viper.AddConfigPath("/etc/orgsync")
		viper.SetConfigName("orgsync")
	}

	viper.AutomaticEnv() // read in environment variables that match
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setOrgsyncParams(&orgsyncFlags)
}
