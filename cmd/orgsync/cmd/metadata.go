// Copyright © 2026 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

// metadataCmd represents the metadata related commands
var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Commands to inspect org metadata",
	Long: `Commands to inspect the metadata catalog of an org: the available
metadata types and the member lists of selected types.`,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
