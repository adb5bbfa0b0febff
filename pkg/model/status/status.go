// Package status exports errors produced by the model package.
package status

import (
	"github.com/oneconcern/orgsync/pkg/errors"
)

var (
	// ErrMalformedTree indicates a selection tree file could not be read or decoded
	ErrMalformedTree = errors.New("malformed metadata selection tree")
)
