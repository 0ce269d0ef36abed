package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// manifest carries workspace defaults for prism from a prism.toml found
// in the start directory or any parent.
type manifest struct {
	Output outputConfig `toml:"output"`
}

type outputConfig struct {
	Color  string `toml:"color"`
	Format string `toml:"format"`
}

// findPrismToml walks from startDir to the filesystem root looking for
// a prism.toml.
func findPrismToml(startDir string) (string, bool) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, "prism.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// loadManifest loads the nearest prism.toml; ok is false when none is
// found or it does not parse.
func loadManifest(startDir string) (manifest, bool) {
	path, ok := findPrismToml(startDir)
	if !ok {
		return manifest{}, false
	}
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return manifest{}, false
	}
	return m, true
}

// resolveFormat prefers an explicitly set --format flag, then the
// manifest default, then fallback.
func resolveFormat(explicit string, changed bool, fallback string) string {
	if changed {
		return explicit
	}
	if m, ok := loadManifest("."); ok && m.Output.Format != "" {
		return m.Output.Format
	}
	return fallback
}
