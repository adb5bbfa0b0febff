// Copyright © 2026 One Concern

package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/oneconcern/orgsync/pkg/core"
	"github.com/oneconcern/orgsync/pkg/olog"
	"github.com/oneconcern/orgsync/pkg/runner"
)

// newConnection builds an org connection from the resolved flags
func newConnection(flags *flagsT) (*core.Connection, error) {
	logLevel := flags.root.logLevel
	if logLevel == "" {
		logLevel = olog.LogLevelInfo
	}
	logger, err := olog.GetLogger(logLevel)
	if err != nil {
		return nil, err
	}

	run := runner.New(
		runner.Exe(flags.root.exe),
		runner.Logger(logger),
	)

	opts := []core.ConnectionOption{
		core.Org(flags.org.Name),
		core.APIVersion(flags.org.APIVersion),
		core.Namespace(flags.org.Namespace),
		core.MultiThread(flags.retrieve.MultiThread),
		core.Runner(run),
		core.Logger(logger),
	}
	if flags.project.Folder != "" {
		opts = append(opts, core.ProjectFolder(flags.project.Folder))
	}
	if flags.retrieve.PollSeconds > 0 {
		opts = append(opts, core.PollInterval(time.Duration(flags.retrieve.PollSeconds)*time.Second))
	}
	if flags.retrieve.TimeoutSecs > 0 {
		opts = append(opts, core.PollTimeout(time.Duration(flags.retrieve.TimeoutSecs)*time.Second))
	}
	return core.NewConnection(opts...), nil
}

// abortOnInterrupt wires SIGINT to the connection abort protocol: the first
// interrupt stops the operation at its next boundary, keeping partial
// results. The returned cleanup restores default signal handling.
func abortOnInterrupt(conn *core.Connection) func() {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt)
	doneC := make(chan struct{})
	go func() {
		select {
		case <-sigC:
			infoLogger.Println("interrupt received, aborting operation")
			conn.Abort()
		case <-doneC:
		}
	}()
	return func() {
		signal.Stop(sigC)
		close(doneC)
	}
}
