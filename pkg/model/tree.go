// Copyright © 2026 One Concern

package model

import (
	"encoding/json"

	"github.com/oneconcern/orgsync/pkg/model/status"
	"github.com/spf13/afero"
)

// Clone returns a deep copy of the tree
func (tree MetadataTree) Clone() MetadataTree {
	out := make(MetadataTree, len(tree))
	for name, mt := range tree {
		out[name] = mt.Clone()
	}
	return out
}

// Clone returns a deep copy of the type subtree
func (t *MetadataType) Clone() *MetadataType {
	if t == nil {
		return nil
	}
	out := &MetadataType{
		Name:    t.Name,
		Checked: t.Checked,
		Path:    t.Path,
		Suffix:  t.Suffix,
	}
	if t.Objects != nil {
		out.Objects = make(map[string]*MetadataObject, len(t.Objects))
		for name, o := range t.Objects {
			out.Objects[name] = o.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the object subtree
func (o *MetadataObject) Clone() *MetadataObject {
	if o == nil {
		return nil
	}
	out := &MetadataObject{
		Name:    o.Name,
		Checked: o.Checked,
		Path:    o.Path,
	}
	if o.Items != nil {
		out.Items = make(map[string]*MetadataItem, len(o.Items))
		for name, i := range o.Items {
			clone := *i
			out.Items[name] = &clone
		}
	}
	return out
}

// Combine merges two selection trees into a superset.
//
// For every type present in either input the checked flags are unioned
// (true wins) and child maps are recursively unioned by name; a key present
// in only one input is copied verbatim. Neither input is mutated.
// Combine is commutative on the checked flags and idempotent:
// Combine(a, a) equals a.
func Combine(a, b MetadataTree) MetadataTree {
	out := a.Clone()
	for name, mt := range b {
		existing, ok := out[name]
		if !ok {
			out[name] = mt.Clone()
			continue
		}
		existing.Checked = existing.Checked || mt.Checked
		if existing.Path == "" {
			existing.Path = mt.Path
		}
		if existing.Suffix == "" {
			existing.Suffix = mt.Suffix
		}
		combineObjects(existing, mt)
	}
	return out
}

func combineObjects(dst, src *MetadataType) {
	for name, o := range src.Objects {
		existing, ok := dst.Objects[name]
		if !ok {
			dst.AddObject(o.Clone())
			continue
		}
		existing.Checked = existing.Checked || o.Checked
		if existing.Path == "" {
			existing.Path = o.Path
		}
		combineItems(existing, o)
	}
}

func combineItems(dst, src *MetadataObject) {
	for name, i := range src.Items {
		existing, ok := dst.Items[name]
		if !ok {
			clone := *i
			dst.AddItem(&clone)
			continue
		}
		existing.Checked = existing.Checked || i.Checked
		if existing.Path == "" {
			existing.Path = i.Path
		}
	}
}

// CheckAll marks every node reachable from the tree as selected.
// Used before generating a package manifest that must include everything.
func (tree MetadataTree) CheckAll() {
	for _, mt := range tree {
		mt.Checked = true
		for _, o := range mt.Objects {
			o.Checked = true
			for _, i := range o.Items {
				i.Checked = true
			}
		}
	}
}

// Prune drops types with no objects and objects with no items when the
// parent is not itself a wildcard selection. Absence, not an empty node,
// signals "nothing found" in downloaded trees.
func (tree MetadataTree) Prune() {
	for name, mt := range tree {
		if !mt.HaveChildren() {
			delete(tree, name)
		}
	}
}

// ReadMetadataTree loads a JSON selection tree from a file.
// Node names are backfilled from the map keys when the file omits them.
func ReadMetadataTree(fs afero.Fs, path string) (MetadataTree, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, status.ErrMalformedTree.Wrap(err)
	}
	var tree MetadataTree
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, status.ErrMalformedTree.Wrap(err)
	}
	for name, mt := range tree {
		if mt == nil {
			delete(tree, name)
			continue
		}
		if mt.Name == "" {
			mt.Name = name
		}
		for oname, o := range mt.Objects {
			if o.Name == "" {
				o.Name = oname
			}
			for iname, i := range o.Items {
				if i.Name == "" {
					i.Name = iname
				}
			}
		}
	}
	return tree, nil
}

// WriteMetadataTree persists a selection tree as indented JSON
func WriteMetadataTree(fs afero.Fs, path string, tree MetadataTree) error {
	raw, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, raw, 0600)
}
