// Copyright © 2026 One Concern

package core

import (
	"sync"
	"testing"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGuardSingleFlight(t *testing.T) {
	t.Parallel()
	var g operationGuard

	outermost, err := g.begin()
	require.NoError(t, err)
	assert.True(t, outermost)
	assert.True(t, g.active())

	_, err = g.begin()
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrOperationNotAllowed))

	assert.True(t, g.end())
	assert.False(t, g.active())

	// a fresh operation is admitted again
	outermost, err = g.begin()
	require.NoError(t, err)
	assert.True(t, outermost)
	assert.True(t, g.end())
}

func TestGuardReentrancy(t *testing.T) {
	t.Parallel()
	var g operationGuard

	outermost, err := g.begin()
	require.NoError(t, err)
	require.True(t, outermost)

	g.openReentrancy()

	// nested entries pass the guard but are never outermost
	nested, err := g.begin()
	require.NoError(t, err)
	assert.False(t, nested)

	// nested end does not release the owner
	assert.False(t, g.end())
	assert.True(t, g.active())

	g.closeReentrancy()

	// with reentrancy closed the owner releases for real
	assert.True(t, g.end())
	assert.False(t, g.active())
}

func TestGuardNestedDepth(t *testing.T) {
	t.Parallel()
	var g operationGuard

	_, err := g.begin()
	require.NoError(t, err)
	g.openReentrancy()
	g.openReentrancy()

	_, err = g.begin()
	require.NoError(t, err)
	assert.False(t, g.end())

	g.closeReentrancy()
	// one level still open: release is still held back
	assert.False(t, g.end())
	assert.True(t, g.active())

	g.closeReentrancy()
	assert.True(t, g.end())
	assert.False(t, g.active())
}

func TestGuardCloseWithoutOpen(t *testing.T) {
	t.Parallel()
	var g operationGuard

	// never goes negative
	g.closeReentrancy()
	_, err := g.begin()
	require.NoError(t, err)
	_, err = g.begin()
	assert.True(t, errors.Is(err, status.ErrOperationNotAllowed))
	assert.True(t, g.end())
}

func TestGuardConcurrentAdmission(t *testing.T) {
	defer goleak.VerifyNone(t)
	var g operationGuard

	const attempts = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.begin(); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// exactly one winner while nobody released
	assert.Equal(t, 1, admitted)
	assert.True(t, g.end())
}

func TestConnectionOperationLifecycle(t *testing.T) {
	t.Parallel()
	c := NewConnection(Org("test@example.org"))

	require.NoError(t, c.startOperation())
	assert.True(t, c.InProgress())

	err := c.startOperation()
	assert.True(t, errors.Is(err, status.ErrOperationNotAllowed))

	c.AllowConcurrence(true)
	require.NoError(t, c.startOperation())
	c.endOperation()
	assert.True(t, c.InProgress())
	c.AllowConcurrence(false)

	c.endOperation()
	assert.False(t, c.InProgress())
}

func TestStartOperationResetsAbort(t *testing.T) {
	t.Parallel()
	c := NewConnection(Org("test@example.org"))

	require.NoError(t, c.startOperation())
	c.Abort()
	assert.True(t, c.Aborted())
	c.endOperation()

	// the abort request does not leak into the next operation
	require.NoError(t, c.startOperation())
	assert.False(t, c.Aborted())
	c.endOperation()
}
