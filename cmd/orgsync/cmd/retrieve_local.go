// Copyright © 2026 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/cobra"
)

var retrieveLocal = &cobra.Command{
	Use:   "local",
	Short: "Retrieve special types present in the local project",
	Long: `Retrieve the special metadata types found by scanning the local
project files. Only files that already exist locally are refreshed.`,
	Example: `% orgsync retrieve local --project ./myproject --org dev@example.org --compress`,
	Run: func(cmd *cobra.Command, args []string) {
		runRetrieve(func(ctx context.Context, conn *core.Connection, opts ...core.Option) (*model.RetrieveResult, error) {
			return conn.RetrieveLocalSpecialTypes(ctx, opts...)
		})
	},
}

func init() {
	addRetrieveFlags(retrieveLocal)
	retrieveCmd.AddCommand(retrieveLocal)
}
