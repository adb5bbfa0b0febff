// Copyright © 2026 One Concern

package core

import (
	"encoding/xml"

	"github.com/oneconcern/orgsync/pkg/model"
	"github.com/spf13/afero"
)

const packageXmlns = "http://soap.sforce.com/2006/04/metadata"

// packageManifest mirrors the package.xml schema consumed by the
// retrieve step
type packageManifest struct {
	XMLName xml.Name      `xml:"Package"`
	Xmlns   string        `xml:"xmlns,attr"`
	Types   []packageType `xml:"types"`
	Version string        `xml:"version"`
}

type packageType struct {
	Members []string `xml:"members"`
	Name    string   `xml:"name"`
}

// buildManifest materializes the checked selection of a tree. A checked
// type or object with no populated children selects everything below it,
// rendered as a wildcard member; explicitly checked children are listed
// one by one. Types and members come out in case-insensitive name order.
func buildManifest(tree model.MetadataTree, apiVersion string) packageManifest {
	manifest := packageManifest{
		Xmlns:   packageXmlns,
		Version: apiVersion,
	}
	for _, typeName := range tree.SortedTypeNames() {
		mt := tree[typeName]
		members := make([]string, 0, len(mt.Objects))
		for _, objectName := range mt.SortedObjectNames() {
			object := mt.Objects[objectName]
			if object.HaveChildren() {
				for _, itemName := range object.SortedItemNames() {
					if object.Items[itemName].Checked {
						members = append(members, objectName+"."+itemName)
					}
				}
				continue
			}
			if object.Checked {
				members = append(members, objectName)
			}
		}
		if len(members) == 0 {
			if !mt.Checked {
				continue
			}
			members = []string{"*"}
		}
		manifest.Types = append(manifest.Types, packageType{
			Name:    typeName,
			Members: members,
		})
	}
	return manifest
}

// writePackageFile renders the selection manifest under the package folder
func writePackageFile(fs afero.Fs, paths model.ProjectPaths, tree model.MetadataTree, apiVersion string) error {
	manifest := buildManifest(tree, apiVersion)
	raw, err := xml.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(paths.PackageFolder, 0700); err != nil {
		return err
	}
	return afero.WriteFile(fs, paths.PackageFile, append([]byte(xml.Header), append(raw, '\n')...), 0600)
}
