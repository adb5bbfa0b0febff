// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/orgsync/pkg/errors"
)

var (
	// ErrOperationNotAllowed signals that another logical operation is
	// already in flight on this connection
	ErrOperationNotAllowed = errors.New("another operation is in progress on this connection")

	// ErrConnectionFailed indicates a non-zero status from an org CLI invocation
	ErrConnectionFailed = errors.New("org CLI operation failed")

	// ErrInvalidInput indicates a missing or invalid parameter, detected
	// before any external call is made
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrieveTimeout indicates the retrieved file tree did not appear
	// within the configured polling bound
	ErrRetrieveTimeout = errors.New("timed out waiting for retrieved files")
)
