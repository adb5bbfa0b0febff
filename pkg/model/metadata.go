// Copyright © 2026 One Concern

// Package model describes the metadata selection hierarchy exchanged
// between the orchestration engine and the org CLI: a three level
// Type -> Object -> Item tree with per-node "checked" selection flags.
//
// Trees are built fresh for every operation, either from a describe of the
// remote org, from a scan of a local project, or from a user supplied
// selection file, and are discarded once the operation completes.
package model

import (
	"sort"
	"strings"
)

// MetadataItem is a leaf of the selection tree: an individual named asset
// such as a single custom field on an object.
type MetadataItem struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	Path    string `json:"path,omitempty"`
}

// MetadataObject is a named member of a metadata type, e.g. one object
// holding fields. The child map is keyed by item name and serialized under
// the historical "childs" key for selection file compatibility.
type MetadataObject struct {
	Name    string                   `json:"name"`
	Checked bool                     `json:"checked"`
	Path    string                   `json:"path,omitempty"`
	Items   map[string]*MetadataItem `json:"childs,omitempty"`
}

// MetadataType is a top level category of the tree.
//
// Checked=true on a type with no populated children means "select the
// entire type, current and future members". The same rule applies one
// level down on MetadataObject.
type MetadataType struct {
	Name    string                     `json:"name"`
	Checked bool                       `json:"checked"`
	Path    string                     `json:"path,omitempty"`
	Suffix  string                     `json:"suffix,omitempty"`
	Objects map[string]*MetadataObject `json:"childs,omitempty"`
}

// MetadataTree maps type names to their selection subtrees
type MetadataTree map[string]*MetadataType

// NewMetadataType builds an empty type node
func NewMetadataType(name string, checked bool) *MetadataType {
	return &MetadataType{
		Name:    name,
		Checked: checked,
		Objects: make(map[string]*MetadataObject),
	}
}

// NewMetadataObject builds an empty object node
func NewMetadataObject(name string, checked bool) *MetadataObject {
	return &MetadataObject{
		Name:    name,
		Checked: checked,
		Items:   make(map[string]*MetadataItem),
	}
}

// AddObject attaches an object to a type, allocating the child map on demand
func (t *MetadataType) AddObject(o *MetadataObject) {
	if t.Objects == nil {
		t.Objects = make(map[string]*MetadataObject)
	}
	t.Objects[o.Name] = o
}

// AddItem attaches an item to an object, allocating the child map on demand
func (o *MetadataObject) AddItem(i *MetadataItem) {
	if o.Items == nil {
		o.Items = make(map[string]*MetadataItem)
	}
	o.Items[i.Name] = i
}

// HaveChildren is true iff the type holds at least one object
func (t *MetadataType) HaveChildren() bool {
	return len(t.Objects) > 0
}

// HaveChildren is true iff the object holds at least one item
func (o *MetadataObject) HaveChildren() bool {
	return len(o.Items) > 0
}

// GetObject returns the named object or nil
func (t *MetadataType) GetObject(name string) *MetadataObject {
	if t == nil {
		return nil
	}
	return t.Objects[name]
}

// GetItem returns the named item or nil
func (o *MetadataObject) GetItem(name string) *MetadataItem {
	if o == nil {
		return nil
	}
	return o.Items[name]
}

// sortedKeysInsensitive orders names case-insensitively, with the original
// spelling as tie breaker, so output is deterministic and diffs stay stable
// between runs.
func sortedKeysInsensitive(names []string) []string {
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

// SortedTypeNames lists the type names of the tree in case-insensitive order
func (tree MetadataTree) SortedTypeNames() []string {
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	return sortedKeysInsensitive(names)
}

// SortedObjectNames lists object names in case-insensitive order
func (t *MetadataType) SortedObjectNames() []string {
	names := make([]string, 0, len(t.Objects))
	for name := range t.Objects {
		names = append(names, name)
	}
	return sortedKeysInsensitive(names)
}

// SortedItemNames lists item names in case-insensitive order
func (o *MetadataObject) SortedItemNames() []string {
	names := make([]string, 0, len(o.Items))
	for name := range o.Items {
		names = append(names, name)
	}
	return sortedKeysInsensitive(names)
}

// TypeSummary is one entry of the org CLI "describemetadata" result
type TypeSummary struct {
	Name     string `json:"xmlName"`
	Suffix   string `json:"suffix,omitempty"`
	Folder   string `json:"directoryName,omitempty"`
	InFolder bool   `json:"inFolder,omitempty"`
}

// TypeSummaries is a sortable collection of type summaries
type TypeSummaries []TypeSummary

func (s TypeSummaries) Len() int      { return len(s) }
func (s TypeSummaries) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s TypeSummaries) Less(i, j int) bool {
	return strings.ToLower(s[i].Name) < strings.ToLower(s[j].Name)
}

// MetadataMember is one entry of the org CLI "listmetadata" result
type MetadataMember struct {
	FullName        string `json:"fullName"`
	FileName        string `json:"fileName,omitempty"`
	Type            string `json:"type,omitempty"`
	NamespacePrefix string `json:"namespacePrefix,omitempty"`
}
