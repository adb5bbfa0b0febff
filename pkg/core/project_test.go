// Copyright © 2026 One Concern

package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oneconcern/orgsync/pkg/core/status"
	"github.com/oneconcern/orgsync/pkg/errors"
	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAssetSuffix(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		base   string
		suffix string
		name   string
		ok     bool
	}{
		{base: "Admin.profile-meta.xml", suffix: "profile", name: "Admin", ok: true},
		{base: "Admin.profile", suffix: "profile", name: "Admin", ok: true},
		{base: "Account.object-meta.xml", suffix: "object", name: "Account", ok: true},
		{base: "Admin.profile-meta.xml", suffix: "object", ok: false},
		{base: "readme.txt", suffix: "profile", ok: false},
		{base: "Admin.profileX", suffix: "profile", ok: false},
	} {
		name, ok := stripAssetSuffix(tc.base, tc.suffix)
		assert.Equal(t, tc.ok, ok, tc.base)
		if tc.ok {
			assert.Equal(t, tc.name, name, tc.base)
		}
	}
}

func TestParseAssetPath(t *testing.T) {
	t.Parallel()
	dir := filepath.Join("/p", "src", "profiles")
	for _, tc := range []struct {
		path   string
		suffix string
		object string
		item   string
		ok     bool
	}{
		{
			path:   filepath.Join(dir, "Admin.profile-meta.xml"),
			suffix: "profile", object: "Admin", ok: true,
		},
		{
			path:   filepath.Join(dir, "Admin", "layouts", "Compact.profile-meta.xml"),
			suffix: "profile", object: "Admin", item: "Compact", ok: true,
		},
		{
			// a folder named after the asset holds the asset itself
			path:   filepath.Join(dir, "Admin", "Admin.profile-meta.xml"),
			suffix: "profile", object: "Admin", ok: true,
		},
		{
			path:   filepath.Join(dir, "notes.txt"),
			suffix: "profile", ok: false,
		},
	} {
		object, item, ok := parseAssetPath(dir, tc.path, tc.suffix)
		assert.Equal(t, tc.ok, ok, tc.path)
		if !tc.ok {
			continue
		}
		assert.Equal(t, tc.object, object, tc.path)
		assert.Equal(t, tc.item, item, tc.path)
	}
}

func TestScanLocalSpecialTypes(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	root := metadataRoot(testProject)
	for _, rel := range []string{
		"profiles/Admin.profile-meta.xml",
		"profiles/Sales.profile-meta.xml",
		"objects/Account.object-meta.xml",
		"objects/Account/recordTypes/Master.recordType-meta.xml",
		"classes/Foo.cls", // not a special type
	} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(root, rel), []byte("x"), 0600))
	}

	c := NewConnection(ProjectFolder(testProject), FileSystem(fs))
	tree, err := c.scanLocalSpecialTypes(model.ExpandSpecialTypes(nil))
	require.NoError(t, err)

	profile := tree["Profile"]
	require.NotNil(t, profile)
	assert.Equal(t, []string{"Admin", "Sales"}, profile.SortedObjectNames())

	object := tree["CustomObject"]
	require.NotNil(t, object)
	assert.NotNil(t, object.GetObject("Account"))

	// the record type file surfaces under its own registry entry
	recordType := tree["RecordType"]
	require.NotNil(t, recordType)
	account := recordType.GetObject("Account")
	require.NotNil(t, account)
	assert.NotNil(t, account.GetItem("Master"))

	assert.NotContains(t, tree, "ApexClass")
	assert.NotContains(t, tree, "PermissionSet")
}

func TestScanLocalSpecialTypesEmptyProject(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(metadataRoot(testProject), 0700))

	c := NewConnection(ProjectFolder(testProject), FileSystem(fs))
	tree, err := c.scanLocalSpecialTypes(model.ExpandSpecialTypes(nil))
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestSelectionMatches(t *testing.T) {
	t.Parallel()
	dir := filepath.Join("/scratch", "src", "profiles")
	adminPath := filepath.Join(dir, "Admin.profile-meta.xml")

	mt := model.NewMetadataType("Profile", false)
	admin := model.NewMetadataObject("Admin", true)
	mt.AddObject(admin)

	assert.True(t, selectionMatches(mt, dir, adminPath, "profile"))

	admin.Checked = false
	assert.False(t, selectionMatches(mt, dir, adminPath, "profile"))

	// a checked type selects objects it never saw
	mt.Checked = true
	assert.True(t, selectionMatches(mt, dir, filepath.Join(dir, "Other.profile-meta.xml"), "profile"))

	// a checked childless type is a wildcard
	wildcard := model.NewMetadataType("Profile", true)
	assert.True(t, selectionMatches(wildcard, dir, adminPath, "profile"))

	unchecked := model.NewMetadataType("Profile", false)
	assert.False(t, selectionMatches(unchecked, dir, adminPath, "profile"))
	assert.False(t, selectionMatches(nil, dir, adminPath, "profile"))
}

func TestWaitForProjectFilesTimeout(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(metadataRoot("/empty"), 0700))

	c := NewConnection(
		FileSystem(fs),
		PollInterval(time.Millisecond),
		PollTimeout(15*time.Millisecond),
	)
	err := c.waitForProjectFiles("/empty")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRetrieveTimeout))
}

func TestWaitForProjectFilesAbort(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(metadataRoot("/empty"), 0700))

	c := NewConnection(
		FileSystem(fs),
		PollInterval(time.Millisecond),
		PollTimeout(time.Minute),
	)
	c.abortRequested.Store(true)

	// an abort ends the wait without error
	require.NoError(t, c.waitForProjectFiles("/empty"))
}

func TestWaitForProjectFilesImmediate(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs,
		filepath.Join(metadataRoot("/p"), "profiles", "Admin.profile"), []byte("x"), 0600))

	c := NewConnection(
		FileSystem(fs),
		PollInterval(time.Millisecond),
		PollTimeout(time.Second),
	)
	require.NoError(t, c.waitForProjectFiles("/p"))
}
