package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Home returns the root data directory for persisted diagrams.
// Priority: $CODEATLAS_HOME -> $XDG_CACHE_HOME/codeatlas -> ~/.cache/codeatlas (Unix) / %LOCALAPPDATA%\codeatlas (Windows)
func Home() (string, error) {
	if home := os.Getenv("CODEATLAS_HOME"); home != "" {
		return home, nil
	}

	if runtime.GOOS != "windows" {
		if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
			return filepath.Join(xdgCache, "codeatlas"), nil
		}
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(userHome, "AppData", "Local", "codeatlas"), nil
	default:
		return filepath.Join(userHome, ".cache", "codeatlas"), nil
	}
}

// DefaultDBPath returns the sqlite database path under Home, creating
// the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create data directory %s: %w", home, err)
	}
	return filepath.Join(home, "diagrams.db"), nil
}
