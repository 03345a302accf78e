package main

import (
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MissingPolicy decides what happens to source entries naming nothing on disk.
type MissingPolicy int

const (
	// SkipMissing silently ignores the entry (allows optional platform specific trees).
	SkipMissing MissingPolicy = iota
	// FailMissing reports the entry as an error.
	FailMissing
)

// ProjectReader reads `project.yml` and its imports into a `Project`.
type ProjectReader struct {
	Missing MissingPolicy
	// Variables are available as `${name}` in path-valued entries.
	Variables map[string]string

	project *Project
	stack   []string
}

// manifestScope is the state while processing one manifest.
type manifestScope struct {
	file   string
	dir    string
	isRoot bool
}

// NewProjectReader creates a reader using `SkipMissing`.
func NewProjectReader(vars map[string]string) *ProjectReader {
	return &ProjectReader{Missing: SkipMissing, Variables: vars}
}

// Read reads the manifest of `projectPath` (recursively resolving imports).
func (r *ProjectReader) Read(projectPath string) (*Project, error) {
	r.project = NewProject()
	r.stack = nil
	if err := r.read(projectPath, true); err != nil {
		return nil, err
	}
	return r.project, nil
}

func (r *ProjectReader) read(projectPath string, isRoot bool) error {
	var projectFile string
	if projectPath == "." {
		projectFile = ProjectFileName
	} else {
		projectFile = filepath.Join(projectPath, ProjectFileName)
	}

	// Check that project file exists and is a file
	st, err := os.Stat(projectFile)
	if err != nil {
		if os.IsNotExist(err) {
			return NewBuildError("File does not exist: \"%s\".", projectFile)
		}
		return errors.Wrapf(err, "failed to stat \"%s\"", projectFile)
	}
	if !st.Mode().IsRegular() {
		return NewBuildError("Not a file: \"%s\".", projectFile)
	}
	absFile, err := filepath.Abs(projectFile)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve \"%s\"", projectFile)
	}
	for i, f := range r.stack {
		if f == absFile {
			chain := append(append([]string{}, r.stack[i:]...), absFile)
			return NewBuildError("Import cycle detected: \"%s\"", strings.Join(chain, "\" -> \""))
		}
	}

	Info("Reading project file %s", projectFile)
	buf, err := ioutil.ReadFile(projectFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read \"%s\"", projectFile)
	}
	m, err := ParseManifest(projectFile, buf)
	if err != nil {
		return err
	}
	r.project.Manifests = append(r.project.Manifests, absFile)

	r.stack = append(r.stack, absFile)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	scope := &manifestScope{file: projectFile, dir: filepath.Dir(projectFile), isRoot: isRoot}
	for _, e := range m.Entries {
		if err := r.apply(scope, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectReader) apply(scope *manifestScope, e Entry) error {
	switch e.Directive {
	case DirectiveDefine:
		r.project.AddDefine(e.Values...)
	case DirectiveImport:
		for _, name := range e.Values {
			path, err := r.resolvePath(scope, e.Directive, name)
			if err != nil {
				return err
			}
			// Imported manifests never rename the root project.
			if err := r.read(path, false); err != nil {
				return err
			}
		}
	case DirectiveProjectName:
		if len(e.Values) != 1 {
			return NewBuildError("\"%s\" expects a single value in project file \"%s\".", e.Directive, scope.file)
		}
		if scope.isRoot {
			r.project.Name = e.Values[0]
		} else {
			Verbose("Ignoring %s in imported project file %s", e.Directive, scope.file)
		}
	case DirectiveProjectSources:
		files, err := r.enumerateFiles(scope, e)
		if err != nil {
			return err
		}
		r.project.AddProjectSources(files...)
	case DirectiveLibrarySources:
		files, err := r.enumerateFiles(scope, e)
		if err != nil {
			return err
		}
		r.project.AddLibrarySources(files...)
	case DirectiveProjectIncludeDirectories:
		dirs, err := r.resolvePathes(scope, e)
		if err != nil {
			return err
		}
		r.project.AddProjectInclude(dirs...)
	case DirectiveLibraryIncludeDirectories:
		dirs, err := r.resolvePathes(scope, e)
		if err != nil {
			return err
		}
		r.project.AddLibraryInclude(dirs...)
	default:
		return NewBuildError("Invalid option \"%s\" in project file \"%s\".", e.Directive, scope.file)
	}
	return nil
}

// Constructs an absolute path for `name` relative to the manifest directory.
func (r *ProjectReader) resolvePath(scope *manifestScope, d Directive, name string) (string, error) {
	expanded, err := Interpolate(name, r.Variables)
	if err != nil {
		return "", NewBuildError("Invalid value \"%s\" for \"%s\" in project file \"%s\": %v", name, d, scope.file, err)
	}
	path := expanded
	if !filepath.IsAbs(path) {
		path = filepath.Join(scope.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve \"%s\"", path)
	}
	return abs, nil
}

func (r *ProjectReader) resolvePathes(scope *manifestScope, e Entry) ([]string, error) {
	result := make([]string, 0, len(e.Values))
	for _, name := range e.Values {
		path, err := r.resolvePath(scope, e.Directive, name)
		if err != nil {
			return nil, err
		}
		result = append(result, path)
	}
	return result, nil
}

// Expands file and directory entries into absolute file pathes.
// Directories are walked recursively at read time.
func (r *ProjectReader) enumerateFiles(scope *manifestScope, e Entry) ([]string, error) {
	files := []string{}
	for _, name := range e.Values {
		path, err := r.resolvePath(scope, e.Directive, name)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(path)
		switch {
		case err == nil && st.Mode().IsRegular():
			files = append(files, path)
		case err == nil && st.IsDir():
			found, err := walkFiles(path)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		case r.Missing == FailMissing:
			return nil, NewBuildError("Source not found: \"%s\" (referenced from \"%s\").", path, scope.file)
		default:
			Verbose("Skipping missing source \"%s\" (referenced from \"%s\")", path, scope.file)
		}
	}
	return files, nil
}

// Collects every file below `root`. Symbolic links to directories are not followed.
func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(path); err == nil && st.IsDir() {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to enumerate files in \"%s\"", root)
	}
	return files, nil
}
