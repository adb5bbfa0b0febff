// Copyright © 2026 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	org struct {
		Name       string
		APIVersion string
		Namespace  string
	}
	project struct {
		Folder string
	}
	retrieve struct {
		SelectionFile string
		Types         []string
		Compress      bool
		SortOrder     string
		MultiThread   bool
		PollSeconds   int
		TimeoutSecs   int
	}
	describe struct {
		Output      string
		DownloadAll bool
	}
	query struct {
		UseTooling bool
	}
	root struct {
		exe      string
		logLevel string
		cpuProf  bool
	}
}

var orgsyncFlags = flagsT{}

func addOrgFlag(cmd *cobra.Command) string {
	const org = "org"
	if cmd != nil {
		cmd.PersistentFlags().StringVar(&orgsyncFlags.org.Name, org, "",
			"The username or alias of the target org")
	}
	return org
}

func addAPIVersionFlag(cmd *cobra.Command) string {
	const apiVersion = "api-version"
	cmd.PersistentFlags().StringVar(&orgsyncFlags.org.APIVersion, apiVersion, "",
		"The metadata API version to use on CLI calls")
	return apiVersion
}

func addNamespaceFlag(cmd *cobra.Command) string {
	const namespace = "namespace"
	cmd.PersistentFlags().StringVar(&orgsyncFlags.org.Namespace, namespace, "",
		"The namespace prefix of the org, used to filter foreign packaged members")
	return namespace
}

func addProjectFlag(cmd *cobra.Command) string {
	const project = "project"
	cmd.Flags().StringVar(&orgsyncFlags.project.Folder, project, "",
		"The path to the local project folder")
	return project
}

func addSelectionFileFlag(cmd *cobra.Command) string {
	const selection = "selection"
	cmd.Flags().StringVar(&orgsyncFlags.retrieve.SelectionFile, selection, "",
		"A JSON selection tree restricting the types to retrieve. An empty or missing file means everything")
	return selection
}

func addTypesFlag(cmd *cobra.Command) string {
	const types = "types"
	cmd.Flags().StringSliceVar(&orgsyncFlags.retrieve.Types, types, nil,
		"Restrict the operation to the listed metadata type names")
	return types
}

func addCompressFlags(cmd *cobra.Command) string {
	const compress = "compress"
	cmd.Flags().BoolVar(&orgsyncFlags.retrieve.Compress, compress, false,
		"Rewrite retrieved XML files in canonical compact form")
	cmd.Flags().StringVar(&orgsyncFlags.retrieve.SortOrder, "sort-order", "simple-first",
		"Sibling sort order used with --compress: simple-first|alphabet-asc|alphabet-desc")
	return compress
}

func addMultiThreadFlag(cmd *cobra.Command) string {
	const multiThread = "multi-thread"
	cmd.Flags().BoolVar(&orgsyncFlags.retrieve.MultiThread, multiThread, true,
		"Fan per-type downloads out over one batch per available core")
	return multiThread
}

func addPollFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&orgsyncFlags.retrieve.PollSeconds, "poll-interval", 1,
		"Seconds between polls for retrieved files")
	cmd.Flags().IntVar(&orgsyncFlags.retrieve.TimeoutSecs, "poll-timeout", 300,
		"Seconds to wait for retrieved files before giving up")
}

func addOutputFlag(cmd *cobra.Command) string {
	const output = "output"
	cmd.Flags().StringVar(&orgsyncFlags.describe.Output, output, "",
		"Write the resulting selection tree to this file instead of stdout")
	return output
}

func addDownloadAllFlag(cmd *cobra.Command) string {
	const all = "all"
	cmd.Flags().BoolVar(&orgsyncFlags.describe.DownloadAll, all, true,
		"Include members from foreign namespaces")
	return all
}

func addToolingFlag(cmd *cobra.Command) string {
	const tooling = "tooling"
	cmd.Flags().BoolVarP(&orgsyncFlags.query.UseTooling, tooling, "t", false,
		"Run the query through the tooling API")
	return tooling
}

func addExeFlag(cmd *cobra.Command) string {
	const exe = "exe"
	cmd.PersistentFlags().StringVar(&orgsyncFlags.root.exe, exe, "",
		"The org CLI executable to delegate to")
	return exe
}

func addLogLevelFlag(cmd *cobra.Command) string {
	const logLevel = "loglevel"
	cmd.PersistentFlags().StringVar(&orgsyncFlags.root.logLevel, logLevel, "",
		"The logging level: none|info|debug")
	return logLevel
}

func addCPUProfFlag(cmd *cobra.Command) string {
	const cpuProf = "cpuprof"
	cmd.PersistentFlags().BoolVar(&orgsyncFlags.root.cpuProf, cpuProf, false,
		"Toggle runtime profiling")
	return cpuProf
}

func init() {
	addOrgFlag(rootCmd)
	addAPIVersionFlag(rootCmd)
	addNamespaceFlag(rootCmd)
	addExeFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addCPUProfFlag(rootCmd)
}
