// Copyright © 2026 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var metadataList = &cobra.Command{
	Use:   "list",
	Short: "List metadata types",
	Long:  `List the metadata types the org knows about, sorted by name.`,
	Example: `% orgsync metadata list --org dev@example.org
ApexClass (cls) classes
CustomObject (object) objects`,
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := newConnection(&orgsyncFlags)
		if err != nil {
			wrapFatalln("build org connection", err)
			return
		}
		summaries, err := conn.ListMetadataTypes(context.Background())
		if err != nil {
			wrapFatalln("list metadata types", err)
			return
		}
		for _, summary := range summaries {
			if summary.Suffix != "" {
				infoLogger.Printf("%s (%s) %s", summary.Name, summary.Suffix, summary.Folder)
				continue
			}
			infoLogger.Printf("%s %s", summary.Name, summary.Folder)
		}
	},
}

func init() {
	metadataCmd.AddCommand(metadataList)
}
