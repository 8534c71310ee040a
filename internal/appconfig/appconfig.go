// Package appconfig holds the application configuration and its defaults.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mwiater/k6merge/internal/logging"
	"github.com/mwiater/k6merge/internal/output"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultConfigPath is where the optional config file is looked up.
	DefaultConfigPath = "config/k6merge.json"
	// DefaultEnvFile is loaded into the environment when present.
	DefaultEnvFile = ".env"
	// EnvPrefix prefixes environment overrides, e.g. K6MERGE_LOGLEVEL.
	EnvPrefix = "K6MERGE"
	// defaultConcurrency bounds how many input files are read at once.
	defaultConcurrency = 4
)

// Config represents the merged configuration (flags > env > file > defaults).
type Config struct {
	Debug       bool   `json:"debug"`
	LogFile     string `json:"logFile,omitempty"`
	LogLevel    string `json:"logLevel,omitempty"`
	Format      string `json:"format,omitempty"`
	Compact     bool   `json:"compact"`
	Concurrency int    `json:"concurrency,omitempty"`
	NoColor     bool   `json:"noColor"`
	ConfigPath  string `json:"-"`
}

// LoadConcurrency returns how many input files may be read in parallel.
func (c Config) LoadConcurrency() int {
	if c.Concurrency <= 0 {
		return defaultConcurrency
	}
	return c.Concurrency
}

// OutputFormat returns the configured document format, defaulting to JSON.
func (c Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// Level returns the effective log level.
func (c Config) Level() logrus.Level {
	return logging.ParseLevel(c.LogLevel, c.Debug)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid configuration: concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without overriding
// variables that are already set. A missing default .env file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if path == DefaultEnvFile && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", path, err)
	}
	return nil
}

// displayOrDefault is used by ShowConfig for empty string settings.
func displayOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
