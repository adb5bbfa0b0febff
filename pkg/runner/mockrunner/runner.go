// Package mockrunner provides hand-rolled func-field mocks of the runner
// interfaces for use in tests.
package mockrunner

import (
	"context"

	"github.com/oneconcern/orgsync/pkg/runner"
)

// RunnerMock mocks runner.Runner
type RunnerMock struct {
	StartFunc func(ctx context.Context, cmd runner.Command) (runner.Process, error)
}

// Start calls StartFunc
func (m *RunnerMock) Start(ctx context.Context, cmd runner.Command) (runner.Process, error) {
	return m.StartFunc(ctx, cmd)
}

// ProcessMock mocks runner.Process. Zero-value funcs yield benign defaults
// so tests only fill in what they assert on.
type ProcessMock struct {
	NameVal    string
	ResultFunc func() (runner.Envelope, error)
	KillFunc   func() error
}

// Name returns NameVal
func (m *ProcessMock) Name() string {
	return m.NameVal
}

// Result calls ResultFunc when set
func (m *ProcessMock) Result() (runner.Envelope, error) {
	if m.ResultFunc == nil {
		return runner.Envelope{}, nil
	}
	return m.ResultFunc()
}

// Kill calls KillFunc when set
func (m *ProcessMock) Kill() error {
	if m.KillFunc == nil {
		return nil
	}
	return m.KillFunc()
}
