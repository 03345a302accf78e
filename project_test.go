package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewProject(t *testing.T) {
	Convey("GIVEN: A new `Project`", t, func() {
		p := NewProject()
		Convey("THEN: Name should be the default one", func() {
			So(p.Name, ShouldEqual, DefaultProjectName)
		})
		Convey("THEN: Every list should be empty", func() {
			So(p.Defines, ShouldBeEmpty)
			So(p.ProjectSources, ShouldBeEmpty)
			So(p.LibrarySources, ShouldBeEmpty)
			So(p.ProjectIncludeDirectories, ShouldBeEmpty)
			So(p.LibraryIncludeDirectories, ShouldBeEmpty)
			So(p.HasLibrary(), ShouldBeFalse)
		})
	})
}

func TestProject_AddDefine(t *testing.T) {
	Convey("GIVEN: An empty `Project`", t, func() {
		p := NewProject()
		Convey("WHEN: Call `AddDefine (\"FOO\")`", func() {
			p.AddDefine("FOO")
			Convey("THEN: Defines should be [\"FOO\"]", func() {
				So(p.Defines, ShouldResemble, []string{"FOO"})
			})
			Convey("AND WHEN: Call `AddDefine (\"BAR=BAZ\", \"FOO\")`", func() {
				p.AddDefine("BAR=BAZ", "FOO")
				Convey("THEN: Duplicates are kept in insertion order", func() {
					So(p.Defines, ShouldResemble, []string{"FOO", "BAR=BAZ", "FOO"})
				})
			})
		})
	})
}

func TestProject_Sources(t *testing.T) {
	Convey("GIVEN: An empty `Project`", t, func() {
		p := NewProject()
		Convey("WHEN: Adds program and library sources", func() {
			p.AddProjectSources("/p/main.cpp")
			p.AddLibrarySources("/p/lib/a.cpp", "/p/lib/b.cpp")
			p.AddProjectInclude("/p/include")
			p.AddLibraryInclude("/p/lib/include")
			Convey("THEN: Each list receives its own entries", func() {
				So(p.ProjectSources, ShouldResemble, []string{"/p/main.cpp"})
				So(p.LibrarySources, ShouldResemble, []string{"/p/lib/a.cpp", "/p/lib/b.cpp"})
				So(p.ProjectIncludeDirectories, ShouldResemble, []string{"/p/include"})
				So(p.LibraryIncludeDirectories, ShouldResemble, []string{"/p/lib/include"})
				So(p.HasLibrary(), ShouldBeTrue)
			})
		})
	})
}
