// Copyright © 2026 One Concern

package cmd

import (
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long:  "Create a config to use for orgsync. Config file will be placed in $HOME/.orgsync/orgsync.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		if orgsyncFlags.org.Name == "" {
			wrapFatalln("an org username or alias is required", nil)
			return
		}
		usr, err := user.Current()
		if usr == nil || err != nil {
			wrapFatalln("could not get home directory for user", err)
			return
		}
		config := CLIConfig{
			Org:        orgsyncFlags.org.Name,
			APIVersion: orgsyncFlags.org.APIVersion,
			Namespace:  orgsyncFlags.org.Namespace,
			Project:    orgsyncFlags.project.Folder,
			Exe:        orgsyncFlags.root.exe,
			LogLevel:   orgsyncFlags.root.logLevel,
		}
		o, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		_ = os.Mkdir(filepath.Join(usr.HomeDir, ".orgsync"), 0777)
		err = os.WriteFile(filepath.Join(usr.HomeDir, ".orgsync", "orgsync.yaml"), o, 0666)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	addProjectFlag(configGen)
	configCmd.AddCommand(configGen)
}
