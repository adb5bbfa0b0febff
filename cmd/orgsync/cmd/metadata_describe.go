// Copyright © 2026 One Concern

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var metadataDescribe = &cobra.Command{
	Use:   "describe [type ...]",
	Short: "Describe metadata types",
	Long: `Download the member lists of the given metadata types and fold them
into a selection tree. Types the org reports as unsupported are omitted;
types with no members are pruned.

The tree is printed as JSON, or written to a file with --output so it can be
edited and fed back to "orgsync retrieve" as a selection file.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := newConnection(&orgsyncFlags)
		if err != nil {
			wrapFatalln("build org connection", err)
			return
		}
		cleanup := abortOnInterrupt(conn)
		defer cleanup()

		tree, err := conn.DescribeMetadataTypes(context.Background(), args,
			orgsyncFlags.describe.DownloadAll,
			core.WithProgress(consoleProgress()),
		)
		if err != nil {
			wrapFatalln("describe metadata types", err)
			return
		}

		if orgsyncFlags.describe.Output != "" {
			if err := model.WriteMetadataTree(afero.NewOsFs(), orgsyncFlags.describe.Output, tree); err != nil {
				wrapFatalln("write selection tree", err)
			}
			return
		}
		raw, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			wrapFatalln("render selection tree", err)
			return
		}
		fmt.Println(string(raw))
	},
}

func init() {
	addOutputFlag(metadataDescribe)
	addDownloadAllFlag(metadataDescribe)
	addMultiThreadFlag(metadataDescribe)
	metadataCmd.AddCommand(metadataDescribe)
}
