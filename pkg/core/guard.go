// Copyright © 2026 One Concern

package core

import (
	"sync"

	"github.com/oneconcern/orgsync/pkg/core/status"
)

// operationGuard enforces single-flight semantics per connection with a
// reentrancy counter instead of a global boolean toggle: composite
// pipelines open reentrancy for their own duration so the public
// operations they call internally pass the guard, and exactly one
// *logical* operation remains in flight at a time.
type operationGuard struct {
	mu         sync.Mutex
	inProgress bool
	reentrancy int
}

// begin admits an operation. It reports whether this is the outermost
// entry, so the caller can reset per-operation state exactly once.
func (g *operationGuard) begin() (outermost bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inProgress {
		if g.reentrancy == 0 {
			return false, status.ErrOperationNotAllowed
		}
		return false, nil
	}
	g.inProgress = true
	return true, nil
}

// end releases the guard and reports whether the release took effect.
// While reentrancy is open only the composite owner may release, so nested
// ends are no-ops.
func (g *operationGuard) end() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reentrancy > 0 {
		return false
	}
	g.inProgress = false
	return true
}

func (g *operationGuard) openReentrancy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reentrancy++
}

func (g *operationGuard) closeReentrancy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reentrancy > 0 {
		g.reentrancy--
	}
}

func (g *operationGuard) active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inProgress
}
