package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// ConfiguredMarkerFileName is written to the output directory after a successful configure.
const ConfiguredMarkerFileName = ".yml2cmake-configured"

// Generator is the CMake generator selected for a compiler.
type Generator struct {
	// Name is the `-G` argument ("" lets CMake pick the host default).
	Name string
	// BuildTypeAtConfigure passes `CMAKE_BUILD_TYPE` when configuring (single configuration generators).
	BuildTypeAtConfigure bool
	// ConfigAtBuild passes `--config` when building (multi configuration generators).
	ConfigAtBuild bool
	// Makefiles accepts `-j`.
	Makefiles bool
	// Options are additional configure arguments.
	Options []string
}

func makefilesGenerator(name string, options ...string) Generator {
	return Generator{Name: name, BuildTypeAtConfigure: true, Makefiles: true, Options: options}
}

func ideGenerator(name string) Generator {
	return Generator{Name: name, ConfigAtBuild: true}
}

func visualStudioGenerator(name string, p Platform) Generator {
	if p == PlatformWin64 {
		return ideGenerator(name + " Win64")
	}
	return ideGenerator(name)
}

func gccBits(p Platform) string {
	if p == PlatformWin64 {
		return "-DB3D_GCC_BITS=64"
	}
	return "-DB3D_GCC_BITS=32"
}

// GeneratorFor maps a (platform, compiler) pair of the compatibility matrix to its generator.
// Panics on pairs the matrix does not allow.
func GeneratorFor(p Platform, c Compiler) Generator {
	if set := CompilersFor(p); set == nil || !set.Contains(c) {
		panic(fmt.Sprintf("compiler %q is not available for platform %q", c, p))
	}
	switch c {
	case CompilerAuto:
		// Whatever CMake picks, pass both build type flags; the unused one is ignored.
		return Generator{BuildTypeAtConfigure: true, ConfigAtBuild: true}
	case CompilerGCC:
		return makefilesGenerator("Unix Makefiles", "-DCMAKE_C_COMPILER=gcc", "-DCMAKE_CXX_COMPILER=g++")
	case CompilerClang:
		return makefilesGenerator("Unix Makefiles", "-DCMAKE_C_COMPILER=clang", "-DCMAKE_CXX_COMPILER=clang++")
	case CompilerMinGW:
		return makefilesGenerator("MinGW Makefiles", gccBits(p))
	case CompilerXcode:
		return ideGenerator("Xcode")
	case CompilerMSVC2013:
		return visualStudioGenerator("Visual Studio 12 2013", p)
	case CompilerMSVC2015:
		return visualStudioGenerator("Visual Studio 14 2015", p)
	}
	panic(fmt.Sprintf("no generator for compiler %q", c))
}

func init() {
	// Every combination of the matrix must have a generator.
	for p := range compilers {
		for _, c := range compilers[p].ToSlice() {
			GeneratorFor(p, Compiler(c))
		}
	}
}

// Driver runs the external build tool in the output directory.
type Driver struct {
	Config Config
	Stdout io.Writer
	Stderr io.Writer
	// GeneratorExecutable is handed to CMake as `B3D_GENERATOR` for the
	// `regenerate` target. It stays out of CMakeLists.txt so the generated
	// file does not depend on where the tool runs from.
	GeneratorExecutable string

	launcher string
}

// NewDriver creates a driver writing tool output to the process stdout/stderr.
func NewDriver(cfg Config) *Driver {
	return &Driver{
		Config:   cfg,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		launcher: FindCompilerLauncher(cfg.CompilerLauncher),
	}
}

// ConfigureCommand constructs the command line of the configure phase.
func (d *Driver) ConfigureCommand(r Resolution) []string {
	gen := GeneratorFor(r.Platform, r.Compiler)
	args := []string{d.Config.CMake}
	if gen.Name != "" {
		args = append(args, "-G", gen.Name)
	}
	args = append(args, gen.Options...)
	if gen.BuildTypeAtConfigure {
		args = append(args, "-DCMAKE_BUILD_TYPE="+r.Target.BuildType())
	}
	if d.launcher != "" {
		args = append(args,
			"-DCMAKE_C_COMPILER_LAUNCHER="+d.launcher,
			"-DCMAKE_CXX_COMPILER_LAUNCHER="+d.launcher)
	}
	if d.GeneratorExecutable != "" {
		args = append(args, "-DB3D_GENERATOR="+filepath.ToSlash(d.GeneratorExecutable))
	}
	args = append(args, d.Config.CMakeOptions...)
	return append(args, ".")
}

// BuildCommand constructs the command line of the build phase.
func (d *Driver) BuildCommand(r Resolution) []string {
	gen := GeneratorFor(r.Platform, r.Compiler)
	args := []string{d.Config.CMake, "--build", "."}
	if gen.ConfigAtBuild {
		args = append(args, "--config", r.Target.BuildType())
	}
	if gen.Makefiles && 0 < d.Config.Jobs {
		args = append(args, "--", "-j", strconv.Itoa(d.Config.Jobs))
	}
	return args
}

// NeedsConfigure reports whether configure has to run: the descriptor
// changed or the output directory was never configured successfully.
// CMakeCache.txt is no evidence of success since CMake writes it before
// failing, so only the marker left by `Configure` counts.
func (d *Driver) NeedsConfigure(r Resolution, changed bool) bool {
	if changed {
		return true
	}
	_, err := os.Stat(filepath.Join(r.OutputDir, ConfiguredMarkerFileName))
	return err != nil
}

// Configure runs the configure ("generate") phase in `r.OutputDir`.
// The marker is dropped first and written again only when CMake succeeds.
func (d *Driver) Configure(ctx context.Context, r Resolution) error {
	marker := filepath.Join(r.OutputDir, ConfiguredMarkerFileName)
	if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "Failed to remove \"%s\"", marker)
	}
	if err := d.run(ctx, r.OutputDir, d.ConfigureCommand(r)); err != nil {
		return err
	}
	return WriteFileAtomic(marker, []byte(d.Config.CMake+"\n"))
}

// Build runs the build phase in `r.OutputDir`.
func (d *Driver) Build(ctx context.Context, r Resolution) error {
	return d.run(ctx, r.OutputDir, d.BuildCommand(r))
}

func (d *Driver) run(ctx context.Context, dir string, command []string) error {
	Verbose("cd %s", shellquote.Join(dir))
	Info("%s", shellquote.Join(command...))
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &ToolError{Command: command[0], Code: exitErr.ExitCode(), Err: err}
		}
		return &ToolError{Command: command[0], Code: -1, Err: err}
	}
	return nil
}
