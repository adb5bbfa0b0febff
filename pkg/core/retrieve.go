// Copyright © 2026 One Concern

package core

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/oneconcern/orgsync/pkg/runner"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// treeSource selects where a special-types pipeline builds its selection
// tree from
type treeSource int

const (
	sourceLocal treeSource = iota
	sourceMixed
	sourceOrg
)

// RetrieveLocalSpecialTypes retrieves the special metadata types present
// in the local project: the selection tree comes from a scan of local
// project files only.
func (c *Connection) RetrieveLocalSpecialTypes(ctx context.Context, extra ...Option) (*model.RetrieveResult, error) {
	return c.retrieveSpecialTypes(ctx, sourceLocal, extra...)
}

// RetrieveMixedSpecialTypes retrieves special metadata types selected from
// the union of a local project scan and an org describe of the same types.
func (c *Connection) RetrieveMixedSpecialTypes(ctx context.Context, extra ...Option) (*model.RetrieveResult, error) {
	return c.retrieveSpecialTypes(ctx, sourceMixed, extra...)
}

// RetrieveOrgSpecialTypes retrieves every special metadata type configured
// in the registry, as described on the org.
func (c *Connection) RetrieveOrgSpecialTypes(ctx context.Context, extra ...Option) (*model.RetrieveResult, error) {
	return c.retrieveSpecialTypes(ctx, sourceOrg, extra...)
}

// retrieveSpecialTypes is the shared skeleton of the three recipes. It is
// a composite operation: it opens guard reentrancy for its own duration so
// the public operations it calls internally (describe) pass the guard.
func (c *Connection) retrieveSpecialTypes(ctx context.Context, source treeSource, extra ...Option) (*model.RetrieveResult, error) {
	settings := newSettings(extra...)
	if source != sourceOrg && c.paths.ProjectFolder == "" {
		return nil, status.ErrInvalidInput.WrapMessage("no project folder configured")
	}

	if err := c.startOperation(); err != nil {
		return nil, err
	}
	defer c.endOperation()
	c.AllowConcurrence(true)
	defer c.AllowConcurrence(false)

	obs := settings.observer

	// PREPARE: candidate types from the registry, restricted by an
	// explicit type list or by the types named in a selection file. An
	// empty or missing selection means the full registry.
	restrict, err := c.selectionRestriction(settings)
	if err != nil {
		return nil, err
	}
	candidates := model.ExpandSpecialTypes(restrict)
	c.progress.reset(len(candidates))
	c.report(obs, ProgressEvent{Stage: StagePrepare, Data: candidates})

	tree, err := c.loadSpecialTypesTree(ctx, source, candidates, obs)
	if err != nil {
		return nil, err
	}
	tree.CheckAll()
	if len(tree) == 0 {
		c.l.Debug("nothing to retrieve", zap.Int("candidates", len(candidates)))
		return &model.RetrieveResult{Done: true, Success: true, Status: "Nothing to retrieve"}, nil
	}

	// CREATE_PROJECT: a disposable project hosts the retrieve
	c.report(obs, ProgressEvent{Stage: StageCreateProject})
	parent, err := afero.TempDir(c.fs, "", "orgsync-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := c.fs.RemoveAll(parent); rmErr != nil {
			c.l.Debug("leaving scratch folder behind", zap.String("path", parent), zap.Error(rmErr))
		}
	}()
	scratch, err := c.createScratchProject(ctx, parent)
	if err != nil {
		return nil, err
	}

	originalPaths := c.paths
	c.SetProjectFolder(scratch)
	defer func() {
		c.paths = originalPaths
	}()

	if err := writePackageFile(c.fs, c.paths, tree, c.apiVersion); err != nil {
		return nil, err
	}
	if err := c.setAuthOrg(ctx, scratch); err != nil {
		return nil, err
	}

	// RETRIEVE into the scratch project
	c.report(obs, ProgressEvent{Stage: StageRetrieve})
	envelope, err := c.runProcess(ctx, runner.Command{
		Name: "retrieve",
		Args: []string{
			"force:mdapi:retrieve",
			"-r", metadataRootName,
			"-k", filepath.Join(model.PackageFolderName, model.PackageFileName),
			"-u", c.org,
			"--unzip",
		},
		Dir: scratch,
	})
	if err != nil {
		if c.Aborted() {
			return &model.RetrieveResult{Done: false, Status: "Aborted"}, nil
		}
		return nil, err
	}
	var result model.RetrieveResult
	if len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, &result); err != nil {
			return nil, status.ErrConnectionFailed.Wrap(err)
		}
	}

	if err := c.waitForProjectFiles(scratch); err != nil {
		return nil, err
	}

	// PROCESS + COPY: reconcile retrieved files over the original project
	c.report(obs, ProgressEvent{Stage: StageProcess})
	copied, err := c.copyRetrievedFiles(scratch, originalPaths.ProjectFolder, tree, settings, obs)
	if err != nil {
		return nil, err
	}
	c.l.Debug("special types retrieve complete",
		zap.Int("types", len(tree)),
		zap.Int("copied", copied),
		zap.Bool("aborted", c.Aborted()),
	)
	return &result, nil
}

// selectionRestriction derives the registry restriction from per-operation
// settings: an explicit type list wins, else the type names present in a
// readable, non-empty selection file. No restriction means everything.
func (c *Connection) selectionRestriction(settings *settings) ([]string, error) {
	if len(settings.types) > 0 {
		return settings.types, nil
	}
	if settings.selectionFile == "" {
		return nil, nil
	}
	if exists, err := afero.Exists(c.fs, settings.selectionFile); err != nil || !exists {
		return nil, nil
	}
	tree, err := model.ReadMetadataTree(c.fs, settings.selectionFile)
	if err != nil {
		return nil, status.ErrInvalidInput.Wrap(err)
	}
	if len(tree) == 0 {
		return nil, nil
	}
	return tree.SortedTypeNames(), nil
}

// loadSpecialTypesTree builds the selection tree from the configured
// source, emitting the loading stage events in recipe order.
func (c *Connection) loadSpecialTypesTree(ctx context.Context, source treeSource, candidates []string, obs ProgressFunc) (model.MetadataTree, error) {
	var local model.MetadataTree
	if source == sourceLocal || source == sourceMixed {
		c.report(obs, ProgressEvent{Stage: StageLoadingLocal})
		var err error
		local, err = c.scanLocalSpecialTypes(candidates)
		if err != nil {
			return nil, err
		}
		if source == sourceLocal {
			return local, nil
		}
	}

	c.report(obs, ProgressEvent{Stage: StageLoadingOrg})
	// nested public call, admitted by the open reentrancy
	remote, err := c.DescribeMetadataTypes(ctx, candidates, true, WithProgress(obs))
	if err != nil {
		return nil, err
	}
	if source == sourceOrg {
		return remote, nil
	}
	return model.Combine(local, remote), nil
}
