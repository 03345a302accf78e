// Schema definitions for values from `project.yml`.
package main

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// ProjectFileName is the name of the manifest looked up in a project directory.
const ProjectFileName = "project.yml"

// Directive is a top level key of `project.yml`.
type Directive string

// Known directives.
const (
	DirectiveDefine                    Directive = "Define"
	DirectiveImport                    Directive = "Import"
	DirectiveProjectName               Directive = "ProjectName"
	DirectiveProjectSources            Directive = "ProjectSources"
	DirectiveLibrarySources            Directive = "LibrarySources"
	DirectiveProjectIncludeDirectories Directive = "ProjectIncludeDirectories"
	DirectiveLibraryIncludeDirectories Directive = "LibraryIncludeDirectories"
)

// Entry is one `<directive>: <scalar or list>` pair.
type Entry struct {
	Directive Directive
	Values    []string
}

// Manifest is a decoded `project.yml`.
// Entries keep the order of the document.
type Manifest struct {
	Path    string
	Entries []Entry
}

// ParseManifest decodes the manifest `buf` read from `path`.
// Values keep their literal text (`1.0` stays "1.0", `yes` stays "yes").
func ParseManifest(path string, buf []byte) (*Manifest, error) {
	// The ordered form gives the directive order, the keyed form the values.
	var order yaml.MapSlice
	if err := yaml.Unmarshal(buf, &order); err != nil {
		return nil, NewBuildError("Failed to parse \"%s\": %v", path, err)
	}
	var values map[string]scalarList
	if err := yaml.Unmarshal(buf, &values); err != nil {
		return nil, NewBuildError("Failed to parse \"%s\": %v", path, err)
	}
	m := &Manifest{Path: path, Entries: make([]Entry, 0, len(order))}
	seen := make(map[string]bool, len(order))
	for _, item := range order {
		name := fmt.Sprint(item.Key)
		if seen[name] {
			return nil, NewBuildError("Duplicate option \"%s\" in project file \"%s\".", name, path)
		}
		seen[name] = true
		v, ok := values[name]
		if !ok || v.invalid {
			return nil, NewBuildError("Invalid value for \"%s\" in project file \"%s\".", name, path)
		}
		if v.values == nil {
			v.values = []string{}
		}
		m.Entries = append(m.Entries, Entry{Directive: Directive(name), Values: v.values})
	}
	return m, nil
}

// scalarList is a YAML scalar or sequence of scalars.
// A scalar is treated as single element list, `null` as empty list
// (yaml.v2 leaves the zero value for `null` without calling UnmarshalYAML).
// Anything else (mappings, nested lists, null items) marks it invalid.
type scalarList struct {
	values  []string
	invalid bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *scalarList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var shape interface{}
	if err := unmarshal(&shape); err != nil {
		return err
	}
	switch v := shape.(type) {
	case nil:
		l.values = []string{}
		return nil
	case []interface{}:
		for _, item := range v {
			if !isScalar(item) {
				l.invalid = true
				return nil
			}
		}
		var items []string
		if err := unmarshal(&items); err != nil {
			return err
		}
		l.values = items
		return nil
	default:
		if !isScalar(v) {
			l.invalid = true
			return nil
		}
		var item string
		if err := unmarshal(&item); err != nil {
			return err
		}
		l.values = []string{item}
		return nil
	}
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, []interface{}, map[interface{}]interface{}, yaml.MapSlice:
		return false
	}
	return true
}
