package main

// DefaultProjectName is used when the root manifest has no `ProjectName`.
const DefaultProjectName = "Project"

// Project is the build information collected from manifests.
// All pathes are absolute. Lists keep insertion order and are never deduplicated.
type Project struct {
	Name                      string
	Defines                   []string
	ProjectSources            []string
	LibrarySources            []string
	ProjectIncludeDirectories []string
	LibraryIncludeDirectories []string
	// Manifests lists every manifest file read, in reading order.
	Manifests []string
}

// NewProject creates an empty project with the default name.
func NewProject() *Project {
	return &Project{
		Name:                      DefaultProjectName,
		Defines:                   []string{},
		ProjectSources:            []string{},
		LibrarySources:            []string{},
		ProjectIncludeDirectories: []string{},
		LibraryIncludeDirectories: []string{},
		Manifests:                 []string{},
	}
}

// AddDefine appends macro definitions.
func (p *Project) AddDefine(defs ...string) {
	p.Defines = append(p.Defines, defs...)
}

// AddProjectSources appends program source files.
func (p *Project) AddProjectSources(files ...string) {
	p.ProjectSources = append(p.ProjectSources, files...)
}

// AddLibrarySources appends library source files.
func (p *Project) AddLibrarySources(files ...string) {
	p.LibrarySources = append(p.LibrarySources, files...)
}

// AddProjectInclude appends include path for program sources.
func (p *Project) AddProjectInclude(dirs ...string) {
	p.ProjectIncludeDirectories = append(p.ProjectIncludeDirectories, dirs...)
}

// AddLibraryInclude appends include path for library sources.
func (p *Project) AddLibraryInclude(dirs ...string) {
	p.LibraryIncludeDirectories = append(p.LibraryIncludeDirectories, dirs...)
}

// HasLibrary reports whether a separate library target is needed.
func (p *Project) HasLibrary() bool {
	return len(p.LibrarySources) != 0
}
