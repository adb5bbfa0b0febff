// Copyright © 2026 One Concern

package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/oneconcern/orgsync/pkg/runner"
	"github.com/oneconcern/orgsync/pkg/xmlcanon"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// metadataRootName is the project subdirectory holding metadata folders
	metadataRootName = "src"

	scratchProjectName = "scratch"
)

func metadataRoot(projectFolder string) string {
	return filepath.Join(projectFolder, metadataRootName)
}

// createScratchProject provisions a disposable project to host a retrieve.
// The project is created by the org CLI under parent and its folder path
// is returned.
func (c *Connection) createScratchProject(ctx context.Context, parent string) (string, error) {
	_, err := c.runProcess(ctx, runner.Command{
		Name: "create-project",
		Args: []string{"force:project:create", "-n", scratchProjectName, "-d", parent, "--template", "empty"},
	})
	if err != nil {
		return "", err
	}
	project := filepath.Join(parent, scratchProjectName)
	// the CLI template may not lay out the metadata root
	if err := c.fs.MkdirAll(metadataRoot(project), 0700); err != nil {
		return "", err
	}
	return project, nil
}

// setAuthOrg points a project at the same remote identity as this
// connection
func (c *Connection) setAuthOrg(ctx context.Context, projectFolder string) error {
	_, err := c.runProcess(ctx, runner.Command{
		Name: "set-auth",
		Args: []string{"force:config:set", "defaultusername=" + c.org},
		Dir:  projectFolder,
	})
	return err
}

// waitForProjectFiles polls the project metadata root until it holds at
// least one file. Exceeding the configured bound rejects with
// ErrRetrieveTimeout; an abort stops the wait without error.
func (c *Connection) waitForProjectFiles(projectFolder string) error {
	root := metadataRoot(projectFolder)
	deadline := time.Now().Add(c.pollTimeout)
	for {
		if c.Aborted() {
			return nil
		}
		n, err := countFiles(c.fs, root)
		if err == nil && n > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return status.ErrRetrieveTimeout.WrapMessage("no files under %s after %s", root, c.pollTimeout)
		}
		time.Sleep(c.pollInterval)
	}
}

func countFiles(fs afero.Fs, root string) (int, error) {
	n := 0
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}

// scanLocalSpecialTypes builds a selection tree from the files present in
// the local project, for every candidate type with a registry entry.
//
// The expected layout under the metadata root is one folder per type:
//
//	src/<folder>/<Object>.<suffix>[-meta.xml]
//	src/<folder>/<Object>/<group>/<Item>.<suffix>[-meta.xml]
func (c *Connection) scanLocalSpecialTypes(candidates []string) (model.MetadataTree, error) {
	tree := make(model.MetadataTree)
	root := metadataRoot(c.paths.ProjectFolder)
	for _, typeName := range candidates {
		st, ok := model.LookupSpecialType(typeName)
		if !ok {
			// child types surface as items under their parent's folder
			continue
		}
		dir := filepath.Join(root, st.Folder)
		if exists, err := afero.DirExists(c.fs, dir); err != nil || !exists {
			continue
		}
		mt := tree[st.Name]
		if mt == nil {
			mt = model.NewMetadataType(st.Name, false)
		}
		err := afero.Walk(c.fs, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			objectName, itemName, ok := parseAssetPath(dir, path, st.Suffix)
			if !ok {
				return nil
			}
			object := mt.GetObject(objectName)
			if object == nil {
				object = model.NewMetadataObject(objectName, false)
				mt.AddObject(object)
			}
			if itemName == "" {
				object.Path = path
				return nil
			}
			object.AddItem(&model.MetadataItem{Name: itemName, Path: path})
			return nil
		})
		if err != nil {
			return nil, err
		}
		if mt.HaveChildren() {
			tree[st.Name] = mt
		}
	}
	return tree, nil
}

// parseAssetPath maps one file below a type folder onto object/item names.
// Files directly under the folder are objects; files nested deeper are
// items of the top level directory they live under.
func parseAssetPath(dir, path, suffix string) (objectName, itemName string, ok bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", "", false
	}
	base := filepath.Base(rel)
	name, ok := stripAssetSuffix(base, suffix)
	if !ok {
		return "", "", false
	}
	comps := strings.Split(filepath.ToSlash(rel), "/")
	if len(comps) == 1 {
		return name, "", true
	}
	if comps[0] == name {
		// e.g. objects/Account/Account.object-meta.xml is the object itself
		return name, "", true
	}
	return comps[0], name, true
}

func stripAssetSuffix(base, suffix string) (string, bool) {
	for _, ending := range []string{"." + suffix + "-meta.xml", "." + suffix} {
		if strings.HasSuffix(base, ending) {
			return strings.TrimSuffix(base, ending), true
		}
	}
	return "", false
}

// copyRetrievedFiles copies files retrieved into the scratch project back
// over the original project: only paths that already exist in the original
// project and belong to the checked selection are touched. Each copied
// file may additionally be canonicalized in place.
//
// Abort stops the copy at the next file boundary, keeping what was copied
// so far. The number of copied files is returned.
func (c *Connection) copyRetrievedFiles(scratchProject, originalProject string, tree model.MetadataTree, settings *settings, obs ProgressFunc) (int, error) {
	type pendingCopy struct {
		typeName string
		from, to string
	}
	var pending []pendingCopy
	seen := make(map[string]bool)

	scratchRoot := metadataRoot(scratchProject)
	originalRoot := metadataRoot(originalProject)
	for _, typeName := range tree.SortedTypeNames() {
		st, ok := model.LookupSpecialType(typeName)
		if !ok {
			continue
		}
		scratchDir := filepath.Join(scratchRoot, st.Folder)
		if exists, err := afero.DirExists(c.fs, scratchDir); err != nil || !exists {
			continue
		}
		err := afero.Walk(c.fs, scratchDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(scratchDir, path)
			if err != nil {
				return err
			}
			target := filepath.Join(originalRoot, st.Folder, rel)
			if exists, err := afero.Exists(c.fs, target); err != nil || !exists {
				return nil
			}
			if !selectionMatches(tree[typeName], scratchDir, path, st.Suffix) {
				return nil
			}
			if seen[target] {
				// types sharing a folder may select the same file twice
				return nil
			}
			seen[target] = true
			pending = append(pending, pendingCopy{typeName: typeName, from: path, to: target})
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	c.progress.reset(len(pending))
	c.report(obs, ProgressEvent{Stage: StageCopyData, Data: len(pending)})

	canon := xmlcanon.New(
		xmlcanon.WithFs(c.fs),
		xmlcanon.WithOrder(settings.sortOrder),
		xmlcanon.Logger(c.l),
	)

	copied := 0
	for _, p := range pending {
		if c.Aborted() {
			return copied, nil
		}
		raw, err := afero.ReadFile(c.fs, p.from)
		if err != nil {
			return copied, err
		}
		if err := afero.WriteFile(c.fs, p.to, raw, 0600); err != nil {
			return copied, err
		}
		copied++
		c.progress.step()
		c.report(obs, ProgressEvent{Stage: StageCopyFile, MetadataType: p.typeName, Data: p.to})
		c.l.Debug("copied retrieved file",
			zap.String("path", p.to),
			zap.String("size", units.HumanSize(float64(len(raw)))),
		)
		if settings.compress {
			if err := canon.CanonicalizeFile(p.to); err != nil {
				return copied, err
			}
			c.report(obs, ProgressEvent{Stage: StageCompressFile, MetadataType: p.typeName, Data: p.to})
		}
	}
	return copied, nil
}

// selectionMatches checks a retrieved file against the checked selection.
// A checked type with no populated children selects everything of that
// type; otherwise the owning object must be checked.
func selectionMatches(mt *model.MetadataType, dir, path, suffix string) bool {
	if mt == nil {
		return false
	}
	if !mt.HaveChildren() {
		return mt.Checked
	}
	objectName, _, ok := parseAssetPath(dir, path, suffix)
	if !ok {
		// not an asset of this type (e.g. shared folder with another type)
		return false
	}
	object := mt.GetObject(objectName)
	if object == nil {
		return mt.Checked
	}
	return object.Checked || mt.Checked
}
