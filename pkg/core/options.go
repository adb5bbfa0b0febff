// Copyright © 2026 One Concern

package core

import (
	"time"

	"github.com/oneconcern/orgsync/pkg/runner"
	"github.com/oneconcern/orgsync/pkg/xmlcanon"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ConnectionOption is a functor to build a connection with some options
type ConnectionOption func(*Connection)

// Org sets the username or alias of the target org
func Org(usernameOrAlias string) ConnectionOption {
	return func(c *Connection) {
		c.org = usernameOrAlias
	}
}

// APIVersion sets the metadata API version used by CLI invocations
func APIVersion(version string) ConnectionOption {
	return func(c *Connection) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// Namespace sets the namespace prefix of the org
func Namespace(prefix string) ConnectionOption {
	return func(c *Connection) {
		c.namespacePrefix = prefix
	}
}

// MultiThread enables fanning work out over one batch per available core
// instead of a single sequential batch
func MultiThread(enabled bool) ConnectionOption {
	return func(c *Connection) {
		c.multiThread = enabled
	}
}

// ProjectFolder points the connection at a project folder; package folder
// and package file locations are derived from it
func ProjectFolder(folder string) ConnectionOption {
	return func(c *Connection) {
		c.SetProjectFolder(folder)
	}
}

// Runner injects the org CLI runner
func Runner(r runner.Runner) ConnectionOption {
	return func(c *Connection) {
		if r != nil {
			c.run = r
		}
	}
}

// FileSystem injects the file system used for scans and scratch projects
func FileSystem(fs afero.Fs) ConnectionOption {
	return func(c *Connection) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// Logger injects a logging facility into connection operations
func Logger(l *zap.Logger) ConnectionOption {
	return func(c *Connection) {
		if l != nil {
			c.l = l
		}
	}
}

// Observer sets the connection level progress observer. A per-operation
// observer passed with WithProgress takes precedence for that operation.
func Observer(f ProgressFunc) ConnectionOption {
	return func(c *Connection) {
		c.observer = f
	}
}

// AbortObserver sets a callback invoked after an abort has been requested
// and in-flight processes have been terminated
func AbortObserver(f func()) ConnectionOption {
	return func(c *Connection) {
		c.onAbort = f
	}
}

// PollInterval tunes how often the retrieve pipeline polls the scratch
// project for downloaded files
func PollInterval(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// PollTimeout bounds how long the retrieve pipeline waits for downloaded
// files before rejecting with status.ErrRetrieveTimeout
func PollTimeout(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		if d > 0 {
			c.pollTimeout = d
		}
	}
}

// Option sets per-operation options
type Option func(*settings)

// settings defines per-operation settings
type settings struct {
	observer      ProgressFunc
	selectionFile string
	types         []string
	compress      bool
	sortOrder     xmlcanon.SortOrder
}

func newSettings(extra ...Option) *settings {
	s := &settings{
		sortOrder: xmlcanon.SimpleFirst,
	}
	for _, apply := range extra {
		apply(s)
	}
	return s
}

// WithProgress sets a progress observer for a single operation, taking
// precedence over the connection level observer
func WithProgress(f ProgressFunc) Option {
	return func(s *settings) {
		s.observer = f
	}
}

// WithSelectionFile points a retrieve pipeline at a JSON selection tree
// restricting the special types to process. An empty or missing file means
// the full registry.
func WithSelectionFile(path string) Option {
	return func(s *settings) {
		s.selectionFile = path
	}
}

// WithTypes restricts a retrieve pipeline to the named registry entries
func WithTypes(names ...string) Option {
	return func(s *settings) {
		s.types = names
	}
}

// Compress enables per-file canonicalization of copied files, with the
// given sibling sort order
func Compress(order xmlcanon.SortOrder) Option {
	return func(s *settings) {
		s.compress = true
		s.sortOrder = order
	}
}
