//
// yml2cmake: generates CMakeLists.txt from project.yml and drives CMake.
//
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const yml2cmakeVersion = "1.1.0"

// Locates the running binary for the `regenerate` target.
var executable = os.Executable

// options are the command line settings.
type options struct {
	projectPath  string
	compiler     string
	target       string
	generateOnly bool
	verbose      bool
	compileDb    bool
	strict       bool
}

// The entry point.
func main() {
	err := newRootCommand().ExecuteContext(context.Background())
	os.Exit(reportError(os.Stderr, err))
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "yml2cmake [flags] [platform]",
		Short:         "Generate CMakeLists.txt from project.yml and build it",
		Args:          cobra.MaximumNArgs(1),
		Version:       yml2cmakeVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := ""
			if 0 < len(args) {
				platform = args[0]
			}
			return run(cmd.Context(), opts, platform)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.projectPath, "project", "p", ".", "path to the project directory")
	flags.StringVarP(&opts.compiler, "compiler", "c", CompilerAuto.String(), "compiler to use to build the project")
	flags.StringVarP(&opts.target, "target", "t", TargetRelease.String(), "build target (debug or release)")
	flags.BoolVarP(&opts.generateOnly, "generate-only", "n", false, "generate only, do not build")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose mode")
	flags.BoolVar(&opts.compileDb, "compdb", false, "also write "+CompileDbFileName)
	flags.BoolVar(&opts.strict, "strict", false, "fail on source entries not found on disk")
	return cmd
}

// Prints `err` and returns the exit status.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if be, ok := AsBuildError(err); ok {
		fmt.Fprintf(w, "ERROR: %s\n", be.Message)
		return 1
	}
	if te, ok := AsToolError(err); ok {
		fmt.Fprintf(w, "ERROR: %s\n", te.Error())
		return te.ExitCode()
	}
	fmt.Fprintf(w, "ERROR: %v\n", err)
	return 1
}

// run performs resolve -> read -> generate -> configure -> build.
func run(ctx context.Context, opts options, platformArg string) error {
	SetupLogger(os.Stderr, opts.verbose)

	target, err := ParseTarget(opts.target)
	if err != nil {
		return err
	}
	platform, compiler, err := Resolve(platformArg, opts.compiler)
	if err != nil {
		return err
	}

	projectPath := opts.projectPath
	if projectPath == "" {
		projectPath = "."
	}
	if st, err := os.Stat(projectPath); err != nil {
		if os.IsNotExist(err) {
			return NewBuildError("Directory does not exist: \"%s\".", projectPath)
		}
		return err
	} else if !st.IsDir() {
		return NewBuildError("Not a directory: \"%s\".", projectPath)
	}
	projectRoot, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(projectRoot)
	if err != nil {
		return err
	}
	res := NewResolution(projectRoot, platform, compiler, target)

	reader := NewProjectReader(res.Variables())
	if opts.strict {
		reader.Missing = FailMissing
	}
	project, err := reader.Read(projectPath)
	if err != nil {
		return err
	}

	Info("Project directory: %s", projectRoot)
	Info("Output directory:  %s", res.OutputDir)
	Info("Platform:          %s", platform)
	Info("Compiler:          %s", compiler)
	Info("Target:            %s", target)

	changed, err := Generate(res.OutputDir, &Descriptor{
		ProjectPath: projectRoot,
		Platform:    platform,
		Compiler:    compiler,
		Target:      target,
		Project:     project,
	})
	if err != nil {
		return err
	}
	if opts.compileDb {
		err = CreateCompileDbFile(filepath.Join(res.OutputDir, CompileDbFileName), CompileDbItems(project, res))
		if err != nil {
			return err
		}
	}

	driver := NewDriver(cfg)
	if exe, err := executable(); err == nil {
		driver.GeneratorExecutable = exe
	} else {
		Warn("Cannot locate own executable, `regenerate` target disabled: %v", err)
	}
	if driver.NeedsConfigure(res, changed) {
		if err := driver.Configure(ctx, res); err != nil {
			return err
		}
	} else {
		Info("Build configuration is up to date")
	}
	if opts.generateOnly {
		return nil
	}
	return driver.Build(ctx, res)
}
