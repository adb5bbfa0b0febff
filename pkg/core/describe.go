// Copyright © 2026 One Concern

package core

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/oneconcern/orgsync/pkg/runner"
	"go.uber.org/zap"
)

// runProcess starts one org CLI invocation, tracks it in the process table
// for the duration of the call and maps failures onto the core taxonomy.
// The decoded envelope is returned even on failure so callers may inspect
// the CLI message (e.g. for per-type pruning).
func (c *Connection) runProcess(ctx context.Context, cmd runner.Command) (runner.Envelope, error) {
	proc, err := c.run.Start(ctx, cmd)
	if err != nil {
		return runner.Envelope{}, status.ErrConnectionFailed.Wrap(err)
	}
	c.processes.register(proc)
	defer c.processes.unregister(proc.Name())

	envelope, err := proc.Result()
	if err != nil {
		return envelope, status.ErrConnectionFailed.Wrap(err)
	}
	if envelope.Status != 0 {
		return envelope, status.ErrConnectionFailed.WrapMessage("%s: %s", cmd.Name, envelope.Message)
	}
	return envelope, nil
}

// ListMetadataTypes returns the summaries of every metadata type the org
// knows about, sorted by name.
func (c *Connection) ListMetadataTypes(ctx context.Context, extra ...Option) (model.TypeSummaries, error) {
	settings := newSettings(extra...)
	if err := c.startOperation(); err != nil {
		return nil, err
	}
	defer c.endOperation()

	c.progress.reset(1)
	c.report(settings.observer, ProgressEvent{Stage: StagePrepare})

	envelope, err := c.runProcess(ctx, runner.Command{
		Name: "describemetadata",
		Args: []string{"force:mdapi:describemetadata", "-u", c.org, "--apiversion", c.apiVersion},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		MetadataObjects model.TypeSummaries `json:"metadataObjects"`
	}
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, status.ErrConnectionFailed.Wrap(err)
	}
	sort.Sort(result.MetadataObjects)
	return result.MetadataObjects, nil
}

// DescribeMetadataTypes downloads the member lists of the given metadata
// types and folds them into a selection tree. Types are fanned out over
// batches; per-type downloads emit before/after/error progress events.
//
// A type the org reports as unsupported is omitted from the result; a type
// with zero members is pruned; any other per-type failure rejects the whole
// operation. When downloadAll is false, members from foreign namespaces are
// filtered out. Abort resolves with the partial tree accumulated so far.
func (c *Connection) DescribeMetadataTypes(ctx context.Context, typeNames []string, downloadAll bool, extra ...Option) (model.MetadataTree, error) {
	settings := newSettings(extra...)
	if err := c.startOperation(); err != nil {
		return nil, err
	}
	defer c.endOperation()

	return c.describeMetadataTypes(ctx, typeNames, downloadAll, settings.observer)
}

func (c *Connection) describeMetadataTypes(ctx context.Context, typeNames []string, downloadAll bool, obs ProgressFunc) (model.MetadataTree, error) {
	tree := make(model.MetadataTree, len(typeNames))
	if len(typeNames) == 0 {
		return tree, nil
	}

	c.progress.reset(len(typeNames))
	batches := getBatches(typeNames, c.multiThread)

	var mu sync.Mutex
	err := c.runBatches(batches, func(typeName string) error {
		c.report(obs, ProgressEvent{Stage: StageBeforeDownload, MetadataType: typeName})

		mt, downloadErr := c.downloadMetadataType(ctx, typeName, downloadAll)
		c.progress.step()
		if downloadErr != nil {
			if c.Aborted() {
				// the in-flight process was killed under us: not an error
				return nil
			}
			c.report(obs, ProgressEvent{Stage: StageErrorDownload, MetadataType: typeName})
			if isUnsupportedType(downloadErr) {
				c.l.Debug("omitting unsupported metadata type",
					zap.String("type", typeName),
					zap.Error(downloadErr),
				)
				return nil
			}
			return downloadErr
		}

		if mt.HaveChildren() {
			mu.Lock()
			tree[typeName] = mt
			mu.Unlock()
		}
		c.report(obs, ProgressEvent{Stage: StageAfterDownload, MetadataType: typeName, Data: len(mt.Objects)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.l.Debug("described metadata types",
		zap.Int("requested", len(typeNames)),
		zap.Int("resolved", len(tree)),
		zap.Bool("complete", allCompleted(batches)),
	)
	return tree, nil
}

// downloadMetadataType lists the members of one type and shapes them into
// a type subtree. Members named Object.Item become nested items.
func (c *Connection) downloadMetadataType(ctx context.Context, typeName string, downloadAll bool) (*model.MetadataType, error) {
	envelope, err := c.runProcess(ctx, runner.Command{
		Name: "listmetadata-" + typeName,
		Args: []string{"force:mdapi:listmetadata", "-m", typeName, "-u", c.org, "--apiversion", c.apiVersion},
	})
	if err != nil {
		if envelope.Message != "" && unsupportedMessage(envelope.Message) {
			return nil, errUnsupportedType.Wrap(err)
		}
		return nil, err
	}

	members, err := decodeMembers(envelope.Result)
	if err != nil {
		return nil, status.ErrConnectionFailed.Wrap(err)
	}

	mt := model.NewMetadataType(typeName, false)
	for _, member := range members {
		if !downloadAll && member.NamespacePrefix != "" && member.NamespacePrefix != c.namespacePrefix {
			continue
		}
		objectName, itemName := splitMemberName(member.FullName)
		if objectName == "" {
			continue
		}
		object := mt.GetObject(objectName)
		if object == nil {
			object = model.NewMetadataObject(objectName, false)
			object.Path = member.FileName
			mt.AddObject(object)
		}
		if itemName != "" {
			object.AddItem(&model.MetadataItem{Name: itemName, Path: member.FileName})
		}
	}
	return mt, nil
}

// decodeMembers accepts both the single-object and the list form of the
// listmetadata result
func decodeMembers(raw json.RawMessage) ([]model.MetadataMember, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var members []model.MetadataMember
	if err := json.Unmarshal(raw, &members); err == nil {
		return members, nil
	}
	var single model.MetadataMember
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []model.MetadataMember{single}, nil
}

func splitMemberName(fullName string) (objectName, itemName string) {
	parts := strings.SplitN(fullName, ".", 2)
	objectName = parts[0]
	if len(parts) > 1 {
		itemName = parts[1]
	}
	return
}

// errUnsupportedType classifies per-type failures that are recovered
// locally instead of surfaced
var errUnsupportedType = status.ErrConnectionFailed.WrapMessage("unsupported metadata type")

// isUnsupportedType walks the error chain looking for the CLI's
// unsupported/invalid type classification
func isUnsupportedType(err error) bool {
	for err != nil {
		if unsupportedMessage(err.Error()) {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func unsupportedMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "invalid_type") ||
		strings.Contains(lower, "unsupported metadata type")
}
