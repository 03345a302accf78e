package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ConfigFileName is the optional per-project tool configuration.
const ConfigFileName = "build.toml"

// Config holds settings for the external tools.
type Config struct {
	// CMake is the cmake executable.
	CMake string `toml:"cmake"`
	// Jobs is the parallelism passed to makefile builds.
	Jobs int `toml:"jobs"`
	// CompilerLauncher is "", "auto" or a launcher path.
	CompilerLauncher string `toml:"compiler_launcher"`
	// CMakeOptions are appended to the configure command line.
	CMakeOptions []string `toml:"cmake_options"`
}

// DefaultConfig returns the settings used without `build.toml`.
func DefaultConfig() Config {
	return Config{CMake: "cmake", Jobs: 4}
}

// LoadConfig reads `<projectRoot>/build.toml` if exists.
func LoadConfig(projectRoot string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to stat \"%s\"", path)
	}
	Verbose("Reading configuration %s", path)
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, NewBuildError("Failed to parse \"%s\": %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return cfg, NewBuildError("Invalid option \"%s\" in configuration file \"%s\".", undecoded[0].String(), path)
	}
	if cfg.CMake == "" {
		cfg.CMake = "cmake"
	}
	if cfg.Jobs < 0 {
		return cfg, NewBuildError("Invalid jobs %d in configuration file \"%s\".", cfg.Jobs, path)
	}
	return cfg, nil
}
