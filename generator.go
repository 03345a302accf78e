package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// DescriptorFileName is the name of the generated build description.
const DescriptorFileName = "CMakeLists.txt"

const descriptorBanner = "##########################################\n" +
	"# THIS IS A GENERATED FILE. DO NOT EDIT! #\n" +
	"##########################################\n" +
	"\n"

// Descriptor is everything rendered into the generated CMakeLists.txt.
type Descriptor struct {
	ProjectPath string
	Platform    Platform
	Compiler    Compiler
	Target      Target
	Project     *Project
}

// LibraryName is the name of the library target.
func (d *Descriptor) LibraryName() string {
	return d.Project.Name + "_lib"
}

// Escape escapes backslashes, then double quotes.
func Escape(s string) string {
	return strings.Replace(strings.Replace(s, `\`, `\\`, -1), `"`, `\"`, -1)
}

// EscapePath normalizes separators to '/' (meaningful on Windows only) and escapes the result.
func EscapePath(path string) string {
	return Escape(filepath.ToSlash(path))
}

var descriptorTemplate = template.Must(template.New("CMakeLists").Funcs(template.FuncMap{
	"escape": func(v interface{}) string {
		switch s := v.(type) {
		case string:
			return Escape(s)
		case interface{ String() string }:
			return Escape(s.String())
		}
		panic("escape: unsupported value")
	},
	"path": EscapePath,
}).Parse(`cmake_minimum_required(VERSION 3.1)
project("{{escape .Project.Name}}" C CXX)
{{define "PATHES"}}
{{- range $p := .}}
    "{{path $p}}"
{{- end}}
{{- end}}
set(B3D_PROJECT_PATH "{{path .ProjectPath}}")
set(B3D_PLATFORM "{{escape .Platform}}")
set(B3D_COMPILER "{{escape .Compiler}}")
set(B3D_TARGET "{{escape .Target}}")

set(B3D_MANIFESTS{{template "PATHES" .Project.Manifests}}
)

set(B3D_DEFINES
{{- range $d := .Project.Defines}}
    "-D{{escape $d}}"
{{- end}}
)

set(B3D_PROJECT_SOURCES{{template "PATHES" .Project.ProjectSources}}
)

set(B3D_LIBRARY_SOURCES{{template "PATHES" .Project.LibrarySources}}
)

set(B3D_PROJECT_INCLUDE_DIRECTORIES{{template "PATHES" .Project.ProjectIncludeDirectories}}
)

set(B3D_LIBRARY_INCLUDE_DIRECTORIES{{template "PATHES" .Project.LibraryIncludeDirectories}}
)

set_property(DIRECTORY APPEND PROPERTY CMAKE_CONFIGURE_DEPENDS ${B3D_MANIFESTS})
add_definitions(${B3D_DEFINES})
{{- if .Project.HasLibrary}}

add_library("{{escape .LibraryName}}" STATIC ${B3D_LIBRARY_SOURCES})
{{- if .Project.LibraryIncludeDirectories}}
target_include_directories("{{escape .LibraryName}}" PUBLIC ${B3D_LIBRARY_INCLUDE_DIRECTORIES})
{{- end}}
{{- end}}
{{- if .Project.ProjectSources}}

add_executable("{{escape .Project.Name}}" ${B3D_PROJECT_SOURCES})
{{- if .Project.ProjectIncludeDirectories}}
target_include_directories("{{escape .Project.Name}}" PRIVATE ${B3D_PROJECT_INCLUDE_DIRECTORIES})
{{- end}}
{{- if .Project.HasLibrary}}
target_link_libraries("{{escape .Project.Name}}" "{{escape .LibraryName}}")
{{- end}}
{{- end}}


if(B3D_GENERATOR)
    add_custom_target(regenerate
        COMMAND "${B3D_GENERATOR}" -n -p "${B3D_PROJECT_PATH}" -c "${B3D_COMPILER}" -t "${B3D_TARGET}" "${B3D_PLATFORM}"
        VERBATIM)
endif()
`))

// Render constructs the content of the generated file.
func (d *Descriptor) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(descriptorBanner)
	if err := descriptorTemplate.Execute(&buf, d); err != nil {
		return nil, errors.Wrapf(err, "Failed to render \"%s\"", DescriptorFileName)
	}
	return buf.Bytes(), nil
}

// Generate writes the descriptor to `<outputDir>/CMakeLists.txt`.
// The file is left untouched when its content would not change; `changed`
// reports whether it was written.
func Generate(outputDir string, d *Descriptor) (changed bool, err error) {
	content, err := d.Render()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return false, errors.Wrapf(err, "Failed to create directory \"%s\"", outputDir)
	}
	output := filepath.Join(outputDir, DescriptorFileName)
	if existing, err := ioutil.ReadFile(output); err == nil && bytes.Equal(existing, content) {
		Verbose("%s is up to date", output)
		return false, nil
	}
	Info("Writing %s", output)
	if err := WriteFileAtomic(output, content); err != nil {
		return false, err
	}
	return true, nil
}
