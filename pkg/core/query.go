// Copyright © 2026 One Concern

package core

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/runner"
)

// Query runs one SOQL query against the org and returns the raw records.
// With useTooling the query goes through the tooling API instead of the
// data API.
func (c *Connection) Query(ctx context.Context, soql string, useTooling bool, extra ...Option) (json.RawMessage, error) {
	settings := newSettings(extra...)
	if strings.TrimSpace(soql) == "" {
		return nil, status.ErrInvalidInput.WrapMessage("empty query")
	}
	if err := c.startOperation(); err != nil {
		return nil, err
	}
	defer c.endOperation()

	c.progress.reset(1)
	c.report(settings.observer, ProgressEvent{Stage: StagePrepare})

	args := []string{"force:data:soql:query", "-q", soql, "-u", c.org}
	if useTooling {
		args = append(args, "-t")
	}
	envelope, err := c.runProcess(ctx, runner.Command{Name: "query", Args: args})
	if err != nil {
		return nil, err
	}

	var result struct {
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, status.ErrConnectionFailed.Wrap(err)
	}
	return result.Records, nil
}
