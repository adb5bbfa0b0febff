// Copyright © 2026 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <soql>",
	Short: "Run a SOQL query against the org",
	Long: `Run one SOQL query against the org and print the raw result records
as JSON. With --tooling the query goes through the tooling API.`,
	Example: `% orgsync query "SELECT Id, Name FROM Account" --org dev@example.org`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := newConnection(&orgsyncFlags)
		if err != nil {
			wrapFatalln("build org connection", err)
			return
		}
		records, err := conn.Query(context.Background(), args[0], orgsyncFlags.query.UseTooling)
		if err != nil {
			wrapFatalln("run query", err)
			return
		}
		fmt.Println(string(records))
	},
}

func init() {
	addToolingFlag(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
