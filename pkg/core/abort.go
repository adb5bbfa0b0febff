// Copyright © 2026 One Concern

package core

import (
	"sync"

	"github.com/oneconcern/orgsync/pkg/runner"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// processTable registers in-flight CLI processes by name so an abort can
// terminate them. Handles are registered immediately after creation and
// removed immediately after completion or termination.
type processTable struct {
	mu    sync.Mutex
	procs map[string]runner.Process
}

func (t *processTable) register(p runner.Process) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.procs == nil {
		t.procs = make(map[string]runner.Process)
	}
	t.procs[p.Name()] = p
}

func (t *processTable) unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.procs, name)
}

func (t *processTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs = nil
}

// killAll terminates every registered handle, best effort. Kill errors are
// aggregated and returned for logging only: processes that already
// completed are not a failure.
func (t *processTable) killAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs error
	for name, p := range t.procs {
		if err := p.Kill(); err != nil {
			errs = multierr.Append(errs, err)
		}
		delete(t.procs, name)
	}
	return errs
}

// Abort requests cooperative cancellation of the operation in flight: the
// abort flag is raised, every registered process is terminated and the
// abort observer, if any, is invoked.
//
// Abort is not an error channel. Loops check the flag at iteration
// boundaries and the operation resolves with whatever partial result it
// accumulated.
func (c *Connection) Abort() {
	c.abortRequested.Store(true)
	if err := c.processes.killAll(); err != nil {
		c.l.Debug("ignoring process kill errors on abort", zap.Error(err))
	}
	if c.onAbort != nil {
		c.onAbort()
	}
}

// Aborted reports whether an abort has been requested for the operation
// in flight
func (c *Connection) Aborted() bool {
	return c.abortRequested.Load()
}
