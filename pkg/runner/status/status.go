// Package status exports errors produced by the runner package.
package status

import (
	"github.com/oneconcern/orgsync/pkg/errors"
)

var (
	// ErrRunFailed indicates the org CLI process could not run to completion
	ErrRunFailed = errors.New("org CLI invocation failed")

	// ErrInvalidOutput indicates the org CLI printed something that is not
	// a JSON result envelope
	ErrInvalidOutput = errors.New("unexpected org CLI output")
)
