package util

import (
	"os"
	"path/filepath"
)

// FindRepoRoot walks upward from start looking for a .git directory.
// Returns start unchanged if none is found.
func FindRepoRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for probe := dir; ; {
		if _, err := os.Stat(filepath.Join(probe, ".git")); err == nil {
			return probe, nil
		}

		parent := filepath.Dir(probe)
		if parent == probe {
			// Reached filesystem root
			return dir, nil
		}
		probe = parent
	}
}
