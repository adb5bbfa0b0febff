// Copyright © 2026 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/cobra"
)

var retrieveOrg = &cobra.Command{
	Use:   "org",
	Short: "Retrieve special types as described on the org",
	Long: `Retrieve every special metadata type configured in the registry, as
described on the org, optionally restricted by --types or --selection.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRetrieve(func(ctx context.Context, conn *core.Connection, opts ...core.Option) (*model.RetrieveResult, error) {
			return conn.RetrieveOrgSpecialTypes(ctx, opts...)
		})
	},
}

func init() {
	addRetrieveFlags(retrieveOrg)
	retrieveCmd.AddCommand(retrieveOrg)
}
