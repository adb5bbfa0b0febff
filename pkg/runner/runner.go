// Copyright © 2026 One Concern

// Package runner starts org CLI commands and decodes the JSON result
// envelope they print on stdout.
//
// Every invocation yields a Process handle supporting a cooperative Kill,
// so the orchestration engine can keep a table of in-flight processes and
// terminate them on abort.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"sync"

	"github.com/oneconcern/orgsync/pkg/runner/status"
	"go.uber.org/zap"
)

// DefaultExe is the org CLI binary resolved from PATH when no
// explicit executable is configured.
const DefaultExe = "sfdx"

// Command describes one org CLI invocation
type Command struct {
	// Name identifies the invocation in the in-flight process table
	Name string

	// Args are the CLI arguments. A --json flag is appended when absent,
	// since the runner only understands the JSON result envelope.
	Args []string

	// Dir is the working directory for the invocation, empty for inherited
	Dir string
}

// Envelope is the result printed by the org CLI with --json output.
// Status 0 means success; any other value is a failure and Message
// carries the human readable reason.
type Envelope struct {
	Status  int             `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Name    string          `json:"name,omitempty"`
}

// Process is a handle on one in-flight CLI invocation
type Process interface {
	// Name returns the table key of this invocation
	Name() string

	// Result blocks until the process completes and returns the decoded
	// envelope. Repeated calls return the same outcome.
	Result() (Envelope, error)

	// Kill terminates the process. Killing an already finished process
	// is not an error.
	Kill() error
}

// Runner starts org CLI commands
type Runner interface {
	Start(ctx context.Context, cmd Command) (Process, error)
}

// Option configures a CLI runner
type Option func(*CLI)

// Exe sets the org CLI executable
func Exe(exe string) Option {
	return func(c *CLI) {
		if exe != "" {
			c.exe = exe
		}
	}
}

// Logger injects a logging facility into the runner
func Logger(l *zap.Logger) Option {
	return func(c *CLI) {
		if l != nil {
			c.l = l
		}
	}
}

// CLI runs commands against a local org CLI binary
type CLI struct {
	exe string
	l   *zap.Logger
}

// New builds a CLI runner
func New(opts ...Option) *CLI {
	c := &CLI{
		exe: DefaultExe,
		l:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

var _ Runner = &CLI{}

// Start launches the command and returns its handle without waiting
func (c *CLI) Start(ctx context.Context, cmd Command) (Process, error) {
	args := cmd.Args
	if !hasJSONFlag(args) {
		args = append(append([]string{}, args...), "--json")
	}

	ecmd := exec.CommandContext(ctx, c.exe, args...)
	ecmd.Dir = cmd.Dir

	proc := &cliProcess{
		name: cmd.Name,
		cmd:  ecmd,
		l:    c.l.With(zap.String("process", cmd.Name)),
	}
	ecmd.Stdout = &proc.stdout
	ecmd.Stderr = &proc.stderr

	c.l.Debug("starting org CLI command",
		zap.String("exe", c.exe),
		zap.String("name", cmd.Name),
		zap.Strings("args", args),
	)
	if err := ecmd.Start(); err != nil {
		return nil, status.ErrRunFailed.Wrap(err)
	}
	return proc, nil
}

func hasJSONFlag(args []string) bool {
	for _, a := range args {
		if a == "--json" {
			return true
		}
	}
	return false
}

type cliProcess struct {
	name   string
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	l      *zap.Logger

	once    sync.Once
	waitErr error
}

func (p *cliProcess) Name() string {
	return p.name
}

func (p *cliProcess) Result() (Envelope, error) {
	p.once.Do(func() {
		p.waitErr = p.cmd.Wait()
	})

	// the CLI exits non-zero on failed operations while still printing a
	// well-formed envelope: prefer the envelope whenever it decodes.
	var envelope Envelope
	if err := json.Unmarshal(p.stdout.Bytes(), &envelope); err != nil {
		if p.waitErr != nil {
			p.l.Debug("org CLI process failed without envelope",
				zap.Error(p.waitErr),
				zap.String("stderr", p.stderr.String()),
			)
			return Envelope{}, status.ErrRunFailed.Wrap(p.waitErr)
		}
		return Envelope{}, status.ErrInvalidOutput.Wrap(err)
	}
	return envelope, nil
}

func (p *cliProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}
