// Copyright © 2026 One Concern

package model

// SpecialType is one entry of the static registry of metadata types that
// require the multi-stage create-project + retrieve + copy handling instead
// of a plain describe call.
type SpecialType struct {
	// Name is the top level metadata type name
	Name string

	// Folder is the project subdirectory holding files of this type
	Folder string

	// Suffix is the file suffix for assets of this type (without -meta.xml)
	Suffix string

	// Children lists additional type names retrieved alongside this one
	Children []string
}

// specialTypes is ordered: candidate lists derived from it are deterministic.
var specialTypes = []SpecialType{
	{Name: "Profile", Folder: "profiles", Suffix: "profile"},
	{Name: "PermissionSet", Folder: "permissionsets", Suffix: "permissionset"},
	{Name: "Translations", Folder: "translations", Suffix: "translation"},
	{Name: "RecordType", Folder: "objects", Suffix: "recordType", Children: []string{"CustomObject"}},
	{Name: "CustomObject", Folder: "objects", Suffix: "object",
		Children: []string{"CustomField", "RecordType", "ValidationRule", "WebLink"}},
}

// SpecialTypes returns the registry of special metadata types
func SpecialTypes() []SpecialType {
	out := make([]SpecialType, len(specialTypes))
	copy(out, specialTypes)
	return out
}

// LookupSpecialType finds a registry entry by type name
func LookupSpecialType(name string) (SpecialType, bool) {
	for _, st := range specialTypes {
		if st.Name == name {
			return st, true
		}
	}
	return SpecialType{}, false
}

// ExpandSpecialTypes produces the candidate type list for a special-types
// pipeline: every registry entry followed by its declared children, in
// registry order, without duplicates. When restrict is non-empty only the
// listed registry entries (and their children) are expanded.
func ExpandSpecialTypes(restrict []string) []string {
	wanted := make(map[string]bool, len(restrict))
	for _, name := range restrict {
		wanted[name] = true
	}
	seen := make(map[string]bool)
	out := make([]string, 0, 2*len(specialTypes))
	for _, st := range specialTypes {
		if len(restrict) > 0 && !wanted[st.Name] {
			continue
		}
		if !seen[st.Name] {
			seen[st.Name] = true
			out = append(out, st.Name)
		}
		for _, child := range st.Children {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out
}

// knownTypeNames is the validated set of common top level type names.
// Unknown names remain accepted everywhere ("other" escape): the set only
// supports advisory validation and tooling hints.
var knownTypeNames = map[string]struct{}{
	"ApexClass":                {},
	"ApexComponent":            {},
	"ApexPage":                 {},
	"ApexTrigger":              {},
	"AuraDefinitionBundle":     {},
	"CustomField":              {},
	"CustomObject":             {},
	"CustomTab":                {},
	"Dashboard":                {},
	"EmailTemplate":            {},
	"Flow":                     {},
	"Layout":                   {},
	"LightningComponentBundle": {},
	"PermissionSet":            {},
	"Profile":                  {},
	"RecordType":               {},
	"Report":                   {},
	"StaticResource":           {},
	"Translations":             {},
	"ValidationRule":           {},
	"WebLink":                  {},
}

// IsKnownType reports whether name belongs to the validated set of
// well known top level metadata type names.
func IsKnownType(name string) bool {
	_, ok := knownTypeNames[name]
	return ok
}
