// Copyright © 2026 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/cobra"
)

var retrieveMixed = &cobra.Command{
	Use:   "mixed",
	Short: "Retrieve special types from the union of local project and org",
	Long: `Retrieve the special metadata types selected from the union of a
local project scan and an org describe of the same types.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRetrieve(func(ctx context.Context, conn *core.Connection, opts ...core.Option) (*model.RetrieveResult, error) {
			return conn.RetrieveMixedSpecialTypes(ctx, opts...)
		})
	},
}

func init() {
	addRetrieveFlags(retrieveMixed)
	retrieveCmd.AddCommand(retrieveMixed)
}
