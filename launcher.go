package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

// LauncherAuto asks `FindCompilerLauncher` to probe known launchers.
const LauncherAuto = "auto"

var knownLaunchers = []string{"ccache", "sccache"}

// FindCompilerLauncher resolves the compiler launcher (ccache and the like)
// configured as `setting`. Returns "" if none is wanted or found.
func FindCompilerLauncher(setting string) string {
	switch setting {
	case "":
		return ""
	case LauncherAuto:
		for _, name := range knownLaunchers {
			if p, err := exec.LookPath(name); err == nil {
				return filepath.ToSlash(filepath.Clean(p))
			}
		}
		Verbose("No compiler launcher found")
		return ""
	}
	if _, err := os.Stat(setting); err == nil {
		return filepath.ToSlash(filepath.Clean(setting))
	}
	if p, err := exec.LookPath(setting); err == nil {
		return filepath.ToSlash(filepath.Clean(p))
	}
	Warn("Compiler launcher \"%s\" not found, building without it.", setting)
	return ""
}
