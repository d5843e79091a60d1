package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/moviesearch/config.yaml (or a cwd fallback).
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultCachePath returns the lookup cache file next to the config file.
func DefaultCachePath() string {
	return filepath.Join(baseDir(), "movies.cache")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "moviesearch")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".moviesearch")
}
