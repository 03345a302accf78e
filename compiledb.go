package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CompileDbFileName is the conventional name of the compilation database.
const CompileDbFileName = "compile_commands.json"

// CompileDbItem represents an entry for json compilation database (https://clang.llvm.org/docs/JSONCompilationDatabase.html)
type CompileDbItem struct {
	// The working directory
	Directory string `json:"directory"`
	// The source file
	File string `json:"file"`
	// Compilation command
	Arguments []string `json:"arguments"`
}

var compilableExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".m": true, ".mm": true,
}

// OptionPrefix retrieves command line option prefix of the compiler.
func OptionPrefix(c Compiler) string {
	switch c {
	case CompilerMSVC2013, CompilerMSVC2015:
		return "/"
	}
	return "-"
}

func compilerCommand(c Compiler, file string) string {
	switch c {
	case CompilerMSVC2013, CompilerMSVC2015:
		return "cl.exe"
	case CompilerGCC:
		if filepath.Ext(file) == ".c" {
			return "gcc"
		}
		return "g++"
	case CompilerClang, CompilerXcode:
		if filepath.Ext(file) == ".c" {
			return "clang"
		}
		return "clang++"
	}
	if filepath.Ext(file) == ".c" {
		return "cc"
	}
	return "c++"
}

// CompileDbItems constructs compilation database entries for compilable sources of `p`.
// Program sources also see the library include directories (the library exports them).
func CompileDbItems(p *Project, r Resolution) []CompileDbItem {
	pfx := OptionPrefix(r.Compiler)
	flags := func(includes ...[]string) []string {
		result := []string{}
		for _, dirs := range includes {
			for _, dir := range dirs {
				result = append(result, pfx+"I"+filepath.ToSlash(dir))
			}
		}
		for _, def := range p.Defines {
			result = append(result, pfx+"D"+def)
		}
		return result
	}
	projectFlags := flags(p.ProjectIncludeDirectories, p.LibraryIncludeDirectories)
	libraryFlags := flags(p.LibraryIncludeDirectories)

	items := make([]CompileDbItem, 0, len(p.ProjectSources)+len(p.LibrarySources))
	add := func(files []string, options []string) {
		for _, f := range files {
			if !compilableExtensions[strings.ToLower(filepath.Ext(f))] {
				continue
			}
			args := []string{compilerCommand(r.Compiler, f)}
			args = append(args, options...)
			args = append(args, pfx+"c", filepath.ToSlash(f))
			items = append(items, CompileDbItem{
				Directory: filepath.ToSlash(r.OutputDir),
				File:      filepath.ToSlash(f),
				Arguments: args,
			})
		}
	}
	add(p.LibrarySources, libraryFlags)
	add(p.ProjectSources, projectFlags)
	return items
}

// CreateCompileDbFile creates compilation-database file.
func CreateCompileDbFile(outPath string, defs []CompileDbItem) error {
	var buf bytes.Buffer
	if err := WriteCompileDb(&buf, defs); err != nil {
		return errors.Wrapf(err, "failed to write definitions")
	}
	Info("Writing %s", outPath)
	return WriteFileAtomic(outPath, buf.Bytes())
}

// WriteCompileDb writes definitions to output.
func WriteCompileDb(output io.Writer, defs []CompileDbItem) error {
	b, err := json.MarshalIndent(defs, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal definitions")
	}
	cnt, err := output.Write(b)
	if err != nil {
		return errors.Wrapf(err, "failed to write marshaled definitions")
	}
	if cnt != len(b) {
		return errors.Errorf("short write (%d of %d bytes)", cnt, len(b))
	}
	return nil
}
