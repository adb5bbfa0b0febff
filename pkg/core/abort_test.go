// Copyright © 2026 One Concern

package core

import (
	"sync"
	"testing"

	"github.com/oneconcern/orgsync/pkg/errors"
	"github.com/oneconcern/orgsync/pkg/runner/mockrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTableKillAll(t *testing.T) {
	t.Parallel()
	var table processTable
	var killed []string
	var mu sync.Mutex

	for _, name := range []string{"one", "two", "three"} {
		toPin := name
		table.register(&mockrunner.ProcessMock{
			NameVal: toPin,
			KillFunc: func() error {
				mu.Lock()
				defer mu.Unlock()
				killed = append(killed, toPin)
				return nil
			},
		})
	}
	table.unregister("two")

	require.NoError(t, table.killAll())
	assert.ElementsMatch(t, []string{"one", "three"}, killed)

	// the table is drained: a second pass kills nothing
	killed = nil
	require.NoError(t, table.killAll())
	assert.Empty(t, killed)
}

func TestProcessTableKillAggregatesErrors(t *testing.T) {
	t.Parallel()
	var table processTable
	table.register(&mockrunner.ProcessMock{
		NameVal:  "stuck",
		KillFunc: func() error { return errors.New("no such process") },
	})
	table.register(&mockrunner.ProcessMock{NameVal: "fine"})

	err := table.killAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such process")
}

func TestAbortKillsRegisteredProcesses(t *testing.T) {
	t.Parallel()
	var (
		mu     sync.Mutex
		killed bool
	)
	notified := false

	c := NewConnection(AbortObserver(func() {
		notified = true
	}))
	c.processes.register(&mockrunner.ProcessMock{
		NameVal: "retrieve",
		KillFunc: func() error {
			mu.Lock()
			defer mu.Unlock()
			killed = true
			return nil
		},
	})

	c.Abort()

	assert.True(t, c.Aborted())
	mu.Lock()
	assert.True(t, killed)
	mu.Unlock()
	assert.True(t, notified)
}

func TestAbortNeverErrors(t *testing.T) {
	t.Parallel()
	c := NewConnection()
	c.processes.register(&mockrunner.ProcessMock{
		NameVal:  "gone",
		KillFunc: func() error { return errors.New("already exited") },
	})

	// kill failures are logged, not surfaced
	c.Abort()
	assert.True(t, c.Aborted())
}

func TestAbortIsIdempotent(t *testing.T) {
	t.Parallel()
	calls := 0
	c := NewConnection(AbortObserver(func() { calls++ }))

	c.Abort()
	c.Abort()
	assert.True(t, c.Aborted())
	assert.Equal(t, 2, calls)
}
