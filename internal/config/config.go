// Package config resolves CLI defaults from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	KeyStrategy    = "VSCRAPER_STRATEGY"
	KeyOutputDir   = "VSCRAPER_OUTPUT_DIR"
	KeyYtDlp       = "VSCRAPER_YTDLP"
	KeyEnvVar      = "VSCRAPER_ENV_VAR"
	KeyRequiredEnv = "VSCRAPER_REQUIRED_ENV"
	KeyDBPath      = "VSCRAPER_DB_PATH"
)

// Default values
const (
	DefaultStrategy    = "truncate"
	DefaultYtDlp       = "yt-dlp"
	DefaultEnvVar      = "CONDA_DEFAULT_ENV"
	DefaultRequiredEnv = "myenv"
	DefaultDBPath      = "vscraper.db"
)

type Config struct {
	Strategy    string
	OutputDir   string
	YtDlpPath   string
	EnvVar      string
	RequiredEnv string
	DBPath      string
}

// Load reads the given .env files (default ".env") into the process
// environment without overriding variables that are already set, then
// resolves the configuration. Missing files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromLookup(os.LookupEnv), nil
}

// FromLookup resolves the configuration from lookup, falling back to the
// defaults. VSCRAPER_REQUIRED_ENV set to an empty string disables the
// environment check.
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}
	cfg := Config{
		Strategy:    get(KeyStrategy, DefaultStrategy),
		OutputDir:   get(KeyOutputDir, ""),
		YtDlpPath:   get(KeyYtDlp, DefaultYtDlp),
		EnvVar:      get(KeyEnvVar, DefaultEnvVar),
		RequiredEnv: DefaultRequiredEnv,
		DBPath:      get(KeyDBPath, DefaultDBPath),
	}
	if v, ok := lookup(KeyRequiredEnv); ok {
		cfg.RequiredEnv = v
	}
	return cfg
}
