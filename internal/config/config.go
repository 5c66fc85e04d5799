// Package config loads engine configuration from defaults overlaid with
// an optional repo-local .codeatlas.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the repo-local configuration file looked up under the
// scan root.
const FileName = ".codeatlas.toml"

type Config struct {
	Project        string   `toml:"project"`
	MaxFileSize    int64    `toml:"max_file_size"`
	UseGitignore   bool     `toml:"use_gitignore"`
	IgnorePatterns []string `toml:"ignore_patterns"`
	Workers        int      `toml:"workers"`

	Diagram DiagramConfig `toml:"diagram"`
	Tree    TreeConfig    `toml:"tree"`
}

type DiagramConfig struct {
	Direction      string `toml:"direction"`
	Strategy       string `toml:"strategy"`
	GroupThreshold int    `toml:"group_threshold"`
}

type TreeConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxFileSize:  1 << 20,
		UseGitignore: true,
		Diagram: DiagramConfig{
			Direction:      "LR",
			Strategy:       "auto",
			GroupThreshold: 50,
		},
		Tree: TreeConfig{
			MaxDepth: 3,
		},
	}
}

// Load returns the defaults overlaid with root/.codeatlas.toml when that
// file exists. A missing file is not an error; an unparseable one is.
// The project name falls back to the root directory's name.
func Load(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", FileName, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", FileName, err)
		}
	}

	if cfg.Project == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return cfg, err
		}
		cfg.Project = filepath.Base(abs)
	}
	return cfg, nil
}
