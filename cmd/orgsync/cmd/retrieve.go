// Copyright © 2026 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/oneconcern/orgsync/pkg/xmlcanon"
	"github.com/spf13/cobra"
)

// retrieveCmd represents the retrieve related commands
var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Commands to retrieve special metadata types",
	Long: `Commands to retrieve the "special" metadata types (profiles,
permission sets, translations, objects and their members) through a
disposable scratch project, copying the retrieved files back over the local
project tree.

The three variants differ only in where the selection comes from: a scan of
the local project, a describe of the org, or the union of both.`,
}

// retrieveOptions shapes the per-operation options from the resolved flags
func retrieveOptions() ([]core.Option, error) {
	opts := []core.Option{
		core.WithProgress(consoleProgress()),
	}
	if orgsyncFlags.retrieve.SelectionFile != "" {
		opts = append(opts, core.WithSelectionFile(orgsyncFlags.retrieve.SelectionFile))
	}
	if len(orgsyncFlags.retrieve.Types) > 0 {
		opts = append(opts, core.WithTypes(orgsyncFlags.retrieve.Types...))
	}
	if orgsyncFlags.retrieve.Compress {
		order, err := xmlcanon.ParseSortOrder(orgsyncFlags.retrieve.SortOrder)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.Compress(order))
	}
	return opts, nil
}

type retrieveFunc func(ctx context.Context, conn *core.Connection, opts ...core.Option) (*model.RetrieveResult, error)

// runRetrieve drives one retrieve variant end to end
func runRetrieve(recipe retrieveFunc) {
	conn, err := newConnection(&orgsyncFlags)
	if err != nil {
		wrapFatalln("build org connection", err)
		return
	}
	opts, err := retrieveOptions()
	if err != nil {
		wrapFatalln("invalid retrieve options", err)
		return
	}
	cleanup := abortOnInterrupt(conn)
	defer cleanup()

	result, err := recipe(context.Background(), conn, opts...)
	if err != nil {
		wrapFatalln("retrieve special types", err)
		return
	}
	printSummary(result.Status, result.Success)
}

func addRetrieveFlags(cmd *cobra.Command) {
	addProjectFlag(cmd)
	addSelectionFileFlag(cmd)
	addTypesFlag(cmd)
	addCompressFlags(cmd)
	addMultiThreadFlag(cmd)
	addPollFlags(cmd)
}

func init() {
	rootCmd.AddCommand(retrieveCmd)
}
