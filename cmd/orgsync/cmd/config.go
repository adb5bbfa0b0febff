// Copyright © 2026 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Org        string `json:"org" yaml:"org"`               // Username or alias of the target org
	APIVersion string `json:"apiversion" yaml:"apiversion"` // Metadata API version
	Namespace  string `json:"namespace" yaml:"namespace"`   // Namespace prefix of the org
	Project    string `json:"project" yaml:"project"`       // Default local project folder
	Exe        string `json:"exe" yaml:"exe"`               // Org CLI executable
	LogLevel   string `json:"loglevel" yaml:"loglevel"`     // Logging level
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// setOrgsyncParams fills flags left empty on the command line from the
// configuration file
func (c *CLIConfig) setOrgsyncParams(flags *flagsT) {
	if flags.org.Name == "" {
		flags.org.Name = c.Org
	}
	if flags.org.APIVersion == "" {
		flags.org.APIVersion = c.APIVersion
	}
	if flags.org.Namespace == "" {
		flags.org.Namespace = c.Namespace
	}
	if flags.project.Folder == "" {
		flags.project.Folder = c.Project
	}
	if flags.root.exe == "" {
		flags.root.exe = c.Exe
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage orgsync CLI config.

Configuration for orgsync is the common set of flags that are needed for most
commands and do not change across runs, analogous to "git config ...".`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
