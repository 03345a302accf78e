package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Platform represents target platform
type Platform string

// Known platforms.
const (
	PlatformAuto  Platform = "auto"
	PlatformLinux Platform = "linux"
	PlatformOSX   Platform = "osx"
	PlatformWin32 Platform = "win32"
	PlatformWin64 Platform = "win64"
)

// String retrieves the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// Compiler represents the toolchain used for building.
type Compiler string

// Known compilers.
const (
	CompilerAuto     Compiler = "auto"
	CompilerGCC      Compiler = "gcc"
	CompilerClang    Compiler = "clang"
	CompilerMinGW    Compiler = "mingw"
	CompilerXcode    Compiler = "xcode"
	CompilerMSVC2013 Compiler = "msvc2013"
	CompilerMSVC2015 Compiler = "msvc2015"
)

func (c Compiler) String() string {
	return string(c)
}

// Target is the build configuration (debug/release).
type Target string

// Known targets.
const (
	TargetDebug   Target = "debug"
	TargetRelease Target = "release"
)

func (t Target) String() string {
	return string(t)
}

// BuildType retrieves the value for CMake's `CMAKE_BUILD_TYPE` and `--config`.
func (t Target) BuildType() string {
	switch t {
	case TargetDebug:
		return "Debug"
	case TargetRelease:
		return "Release"
	}
	panic(fmt.Sprintf("unknown target %q", string(t)))
}

// ParseTarget validates `s` as a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetDebug, TargetRelease:
		return t, nil
	}
	return "", NewBuildError("Invalid target \"%s\". Valid values are: %s, %s", s, TargetDebug, TargetRelease)
}

// IDSet is a set of identifiers.
type IDSet struct {
	set map[string]bool
}

// Contains returns true if `id` is in the set.
func (s *IDSet) Contains(id interface{}) bool {
	if s.set == nil {
		return false
	}
	var ok bool
	switch v := id.(type) {
	case string:
		_, ok = s.set[v]
	case fmt.Stringer:
		_, ok = s.set[v.String()]
	default:
		panic("failed to convert id into string")
	}
	return ok
}

// Add adds `id` to set.
func (s *IDSet) Add(id fmt.Stringer) *IDSet {
	if s.set == nil {
		s.set = make(map[string]bool)
	}
	s.set[id.String()] = true
	return s
}

// Len returns the number of identifiers in the set.
func (s *IDSet) Len() int {
	return len(s.set)
}

// ToSlice convert to sorted slice.
func (s *IDSet) ToSlice() []string {
	result := make([]string, 0, len(s.set))
	for k := range s.set {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// String joins sorted identifiers with ", ".
func (s *IDSet) String() string {
	return strings.Join(s.ToSlice(), ", ")
}

// Every platform accepts `auto` which defers to the host defaults.
var compilers = map[Platform]*IDSet{
	PlatformAuto:  new(IDSet).Add(CompilerAuto),
	PlatformLinux: new(IDSet).Add(CompilerAuto).Add(CompilerGCC).Add(CompilerClang),
	PlatformOSX:   new(IDSet).Add(CompilerAuto).Add(CompilerClang).Add(CompilerXcode),
	PlatformWin32: new(IDSet).Add(CompilerAuto).Add(CompilerMinGW).Add(CompilerMSVC2013).Add(CompilerMSVC2015),
	PlatformWin64: new(IDSet).Add(CompilerAuto).Add(CompilerMinGW).Add(CompilerMSVC2013).Add(CompilerMSVC2015),
}

// Platforms retrieves the set of known platforms.
func Platforms() *IDSet {
	result := new(IDSet)
	for p := range compilers {
		result.Add(p)
	}
	return result
}

// CompilersFor retrieves the compilers valid for `p` (nil when `p` is unknown).
func CompilersFor(p Platform) *IDSet {
	return compilers[p]
}

// Resolve validates requested platform and compiler.
// Empty arguments mean `auto`.
func Resolve(platformArg, compilerArg string) (Platform, Compiler, error) {
	if platformArg == "" {
		platformArg = PlatformAuto.String()
	}
	if compilerArg == "" {
		compilerArg = CompilerAuto.String()
	}
	platform := Platform(platformArg)
	valid, ok := compilers[platform]
	if !ok {
		return "", "", NewBuildError("Unknown platform \"%s\". Valid values are: %s", platformArg, Platforms())
	}
	compiler := Compiler(compilerArg)
	if !valid.Contains(compiler) {
		return "", "", NewBuildError("Compiler \"%s\" is not supported for platform \"%s\". Valid values are: %s",
			compilerArg, platformArg, valid)
	}
	return platform, compiler, nil
}

// Resolution is the build configuration selected for one invocation.
type Resolution struct {
	Platform  Platform
	Compiler  Compiler
	Target    Target
	OutputDir string
}

// NewResolution computes the output directory below `projectRoot` (which should be absolute).
func NewResolution(projectRoot string, platform Platform, compiler Compiler, target Target) Resolution {
	return Resolution{
		Platform:  platform,
		Compiler:  compiler,
		Target:    target,
		OutputDir: OutputDirectory(projectRoot, platform, compiler, target),
	}
}

// OutputDirectory constructs `<projectRoot>/build/<platform>-<compiler>-<target>`.
// `auto` parts are omitted.
func OutputDirectory(projectRoot string, platform Platform, compiler Compiler, target Target) string {
	parts := make([]string, 0, 3)
	if platform != PlatformAuto {
		parts = append(parts, platform.String())
	}
	if compiler != CompilerAuto {
		parts = append(parts, compiler.String())
	}
	parts = append(parts, target.String())
	return filepath.Join(projectRoot, "build", strings.Join(parts, "-"))
}

// Variables retrieves values usable as `${name}` in manifests.
func (r Resolution) Variables() map[string]string {
	return map[string]string{
		"platform": r.Platform.String(),
		"compiler": r.Compiler.String(),
		"target":   r.Target.String(),
	}
}
