package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creates `files` (slash separated names relative to `root`).
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, ioutil.WriteFile(p, []byte(content), 0644))
	}
}

func absPathes(root string, names ...string) []string {
	result := make([]string, 0, len(names))
	for _, n := range names {
		result = append(result, filepath.Join(root, filepath.FromSlash(n)))
	}
	return result
}

func TestProjectReader_Simple(t *testing.T) {
	Convey("GIVEN: A manifest without imports", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"project.yml": `
ProjectName: Demo
Define: [FOO, BAR=1, FOO]
ProjectSources:
  - main.c
  - src
  - missing.c
LibrarySources: lib/lib.c
ProjectIncludeDirectories: include
LibraryIncludeDirectories: [lib/include]
`,
			"main.c":          "",
			"src/a.c":         "",
			"src/sub/b.c":     "",
			"lib/lib.c":       "",
			"include/x.h":     "",
			"lib/include/y.h": "",
		})
		Convey("WHEN: Read it", func() {
			p, err := NewProjectReader(nil).Read(root)
			Convey("THEN: Should success", func() {
				So(err, ShouldBeNil)
				Convey("AND THEN: The name comes from the manifest", func() {
					So(p.Name, ShouldEqual, "Demo")
				})
				Convey("AND THEN: Defines keep order and duplicates", func() {
					So(p.Defines, ShouldResemble, []string{"FOO", "BAR=1", "FOO"})
				})
				Convey("AND THEN: Directories expand recursively, missing entries vanish", func() {
					So(p.ProjectSources, ShouldResemble, absPathes(root, "main.c", "src/a.c", "src/sub/b.c"))
				})
				Convey("AND THEN: Library lists are separated", func() {
					So(p.LibrarySources, ShouldResemble, absPathes(root, "lib/lib.c"))
					So(p.LibraryIncludeDirectories, ShouldResemble, absPathes(root, "lib/include"))
					So(p.ProjectIncludeDirectories, ShouldResemble, absPathes(root, "include"))
				})
				Convey("AND THEN: The manifest is recorded", func() {
					So(p.Manifests, ShouldResemble, absPathes(root, "project.yml"))
				})
			})
		})
	})
}

func TestProjectReader_Import(t *testing.T) {
	Convey("GIVEN: root imports a, a imports b", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"project.yml": `
Define: ROOT
Import: a
ProjectSources: root.c
ProjectName: Root
`,
			"root.c": "",
			"a/project.yml": `
ProjectName: A
Import: b
Define: A
ProjectSources: a.c
`,
			"a/a.c": "",
			"a/b/project.yml": `
ProjectName: B
Define: B
ProjectSources: b.c
ProjectIncludeDirectories: .
`,
			"a/b/b.c": "",
		})
		Convey("WHEN: Read the root", func() {
			p, err := NewProjectReader(nil).Read(root)
			So(err, ShouldBeNil)
			Convey("THEN: Imports are merged depth-first", func() {
				So(p.Defines, ShouldResemble, []string{"ROOT", "B", "A"})
				So(p.ProjectSources, ShouldResemble, absPathes(root, "a/b/b.c", "a/a.c", "root.c"))
			})
			Convey("THEN: Pathes are relative to the declaring manifest", func() {
				So(p.ProjectIncludeDirectories, ShouldResemble, absPathes(root, "a/b"))
			})
			Convey("THEN: Only the root manifest names the project", func() {
				So(p.Name, ShouldEqual, "Root")
			})
			Convey("THEN: Manifests are recorded in reading order", func() {
				So(p.Manifests, ShouldResemble, absPathes(root, "project.yml", "a/project.yml", "a/b/project.yml"))
			})
		})
	})
	Convey("GIVEN: A root without `ProjectName` importing a named manifest", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"project.yml":     "Import: sub\n",
			"sub/project.yml": "ProjectName: Sub\n",
		})
		Convey("WHEN: Read the root", func() {
			p, err := NewProjectReader(nil).Read(root)
			Convey("THEN: The default name is kept", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, DefaultProjectName)
			})
		})
	})
}

func TestProjectReader_Errors(t *testing.T) {
	Convey("GIVEN: A directory without manifest", t, func() {
		root := t.TempDir()
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail with `File does not exist`", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, `File does not exist: "`+filepath.Join(root, ProjectFileName)+`".`)
		})
	})
	Convey("GIVEN: A directory named `project.yml`", t, func() {
		root := t.TempDir()
		So(os.Mkdir(filepath.Join(root, ProjectFileName), 0755), ShouldBeNil)
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail with `Not a file`", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, `Not a file: "`+filepath.Join(root, ProjectFileName)+`".`)
		})
	})
	Convey("GIVEN: A manifest with an unknown directive", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"project.yml": "Define: A\nSources: main.c\n"})
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail naming the directive and manifest", func() {
			So(err, ShouldNotBeNil)
			_, ok := AsBuildError(err)
			So(ok, ShouldBeTrue)
			So(err.Error(), ShouldEqual,
				`Invalid option "Sources" in project file "`+filepath.Join(root, ProjectFileName)+`".`)
		})
	})
	Convey("GIVEN: Manifests importing each other", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"project.yml":   "Import: a\n",
			"a/project.yml": "Import: ../b\n",
			"b/project.yml": "Import: ../a\n",
		})
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail with an import cycle", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "Import cycle detected:")
		})
	})
	Convey("GIVEN: A broken import", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"project.yml": "Import: nowhere\n"})
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail with `File does not exist`", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "File does not exist:")
		})
	})
	Convey("GIVEN: `ProjectName` with several values", t, func() {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"project.yml": "ProjectName: [a, b]\n"})
		_, err := NewProjectReader(nil).Read(root)
		Convey("THEN: Should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestProjectReader_MissingPolicy(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"project.yml": "ProjectSources: [main.c, optional]\n",
		"main.c":      "",
	})

	p, err := NewProjectReader(nil).Read(root)
	require.NoError(t, err)
	assert.Equal(t, absPathes(root, "main.c"), p.ProjectSources)

	strict := NewProjectReader(nil)
	strict.Missing = FailMissing
	_, err = strict.Read(root)
	require.Error(t, err)
	_, ok := AsBuildError(err)
	assert.True(t, ok)
	assert.Contains(t, err.Error(), "Source not found")
}

func TestProjectReader_Variables(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"project.yml":        "ProjectSources: [common.c, \"platform/${platform}\"]\nDefine: COST=$5\n",
		"common.c":           "",
		"platform/linux/x.c": "",
		"platform/win32/y.c": "",
	})

	p, err := NewProjectReader(map[string]string{"platform": "linux"}).Read(root)
	require.NoError(t, err)
	assert.Equal(t, absPathes(root, "common.c", "platform/linux/x.c"), p.ProjectSources)
	// Defines are not interpolated.
	assert.Equal(t, []string{"COST=$5"}, p.Defines)

	_, err = NewProjectReader(map[string]string{}).Read(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `variable "platform" is not defined`)
}

func TestProjectReader_CurrentDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"project.yml": "ProjectSources: main.c\n",
		"main.c":      "",
	})
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	defer os.Chdir(wd)

	p, err := NewProjectReader(nil).Read(".")
	require.NoError(t, err)
	expected, err := filepath.Abs("main.c")
	require.NoError(t, err)
	assert.Equal(t, []string{expected}, p.ProjectSources)
}

func TestProjectReader_Symlinks(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"project.yml":    "ProjectSources: src\n",
		"src/a.c":        "",
		"shared/b.c":     "",
		"shared/sub/c.c": "",
	})
	if err := os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "src", "linked")); err != nil {
		t.Skipf("symbolic links are not available: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "shared", "b.c"), filepath.Join(root, "src", "b.c")))

	p, err := NewProjectReader(nil).Read(root)
	require.NoError(t, err)
	// Linked files are sources, linked directories are not descended.
	assert.Equal(t, absPathes(root, "src/a.c", "src/b.c"), p.ProjectSources)
}
