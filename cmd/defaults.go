package cmd

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir is the default data directory to use for the databases and other
// persistence requirements.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "EngineBridge")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "EngineBridge")
	default:
		return filepath.Join(home, ".enginebridge")
	}
}
