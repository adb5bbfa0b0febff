// Copyright © 2026 One Concern

package model

import "path/filepath"

const (
	// PackageFolderName is the manifest subdirectory of a project
	PackageFolderName = "manifest"

	// PackageFileName is the selection manifest consumed by a retrieve
	PackageFileName = "package.xml"
)

// ProjectPaths groups the on-disk locations derived from a project folder.
// The package folder and package file always follow from the project folder,
// so setting one recomputes the other two.
type ProjectPaths struct {
	ProjectFolder string
	PackageFolder string
	PackageFile   string
}

// NewProjectPaths derives all project locations from the project folder
func NewProjectPaths(projectFolder string) ProjectPaths {
	packageFolder := filepath.Join(projectFolder, PackageFolderName)
	return ProjectPaths{
		ProjectFolder: projectFolder,
		PackageFolder: packageFolder,
		PackageFile:   filepath.Join(packageFolder, PackageFileName),
	}
}
