// Copyright © 2026 One Concern

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/oneconcern/orgsync/pkg/core"
)

var (
	stageColor   = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// consoleProgress renders progress events on stdout, one line per event
func consoleProgress() core.ProgressFunc {
	return func(ev core.ProgressEvent) {
		label := stageColor.Sprint(string(ev.Stage))
		switch ev.Stage {
		case core.StageErrorDownload:
			label = errorColor.Sprint(string(ev.Stage))
		case core.StageAfterDownload, core.StageCopyFile, core.StageCompressFile:
			label = successColor.Sprint(string(ev.Stage))
		}

		detail := ev.MetadataType
		if s, ok := ev.Data.(string); ok && detail == "" {
			detail = s
		}
		if detail != "" {
			infoLogger.Printf("%6.2f%% %s %s", ev.Percentage, label, detail)
			return
		}
		infoLogger.Printf("%6.2f%% %s", ev.Percentage, label)
	}
}

// printSummary reports the outcome of a retrieve
func printSummary(status string, success bool) {
	if success {
		infoLogger.Println(successColor.Sprint(status))
		return
	}
	fmt.Println(errorColor.Sprint(status))
}
