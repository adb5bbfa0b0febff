// Copyright © 2026 One Concern

// Package core implements the orchestration engine: a reentrant operation
// guard, a batching scheduler, staged progress reporting, a cooperative
// abort protocol and the composite "retrieve special types" pipelines, all
// delegating individual units of work to the org CLI through pkg/runner.
//
// A Connection is exclusively owned by one logical caller: exactly one
// logical operation may be in flight at a time, though that operation may
// itself be a composite pipeline issuing nested calls (see guard.go).
// Distinct Connection instances share no state and may run fully in
// parallel.
package core

import (
	"time"

	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/oneconcern/orgsync/pkg/runner"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	defaultAPIVersion   = "62.0"
	defaultPollInterval = time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// Connection owns the mutable context of one org connection: identity,
// derived project paths, concurrency mode, progress counters, the abort
// flag and the table of in-flight CLI processes.
type Connection struct {
	org             string
	apiVersion      string
	namespacePrefix string
	multiThread     bool
	paths           model.ProjectPaths
	pollInterval    time.Duration
	pollTimeout     time.Duration

	run      runner.Runner
	fs       afero.Fs
	l        *zap.Logger
	observer ProgressFunc
	onAbort  func()

	guard          operationGuard
	abortRequested atomic.Bool
	processes      processTable
	progress       progressTracker
}

// NewConnection builds a connection context for one org
func NewConnection(opts ...ConnectionOption) *Connection {
	c := &Connection{
		apiVersion:   defaultAPIVersion,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
		fs:           afero.NewOsFs(),
		l:            zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	if c.run == nil {
		c.run = runner.New(runner.Logger(c.l))
	}
	return c
}

// Org returns the username or alias this connection addresses
func (c *Connection) Org() string {
	return c.org
}

// APIVersion returns the configured metadata API version
func (c *Connection) APIVersion() string {
	return c.apiVersion
}

// Paths returns the current project locations
func (c *Connection) Paths() model.ProjectPaths {
	return c.paths
}

// SetProjectFolder points the connection at a project folder, recomputing
// the package folder and package file locations.
func (c *Connection) SetProjectFolder(folder string) {
	c.paths = model.NewProjectPaths(folder)
}

// AllowConcurrence opens or closes guard reentrancy. Composite pipelines
// use this internally for their own duration; external callers normally
// never need it.
func (c *Connection) AllowConcurrence(allow bool) {
	if allow {
		c.guard.openReentrancy()
		return
	}
	c.guard.closeReentrancy()
}

// InProgress reports whether a logical operation is currently in flight
func (c *Connection) InProgress() bool {
	return c.guard.active()
}

// startOperation gates entry into every public operation. On the outermost
// entry it resets the abort flag and clears the process table.
func (c *Connection) startOperation() error {
	outermost, err := c.guard.begin()
	if err != nil {
		return err
	}
	if outermost {
		c.abortRequested.Store(false)
		c.processes.clear()
	}
	return nil
}

// endOperation releases the guard; the release only takes effect once
// reentrancy is closed (nested calls never release the outer operation).
func (c *Connection) endOperation() {
	if released := c.guard.end(); released {
		c.processes.clear()
	}
}
