// Package config holds the settings of the maze command-line tool.
//
// Settings are layered: built-in defaults, then an optional YAML file, then an
// optional .env file and MAZE_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ColorMode selects whether text art is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the tool's configuration values.
type Config struct {
	Width       int       `yaml:"width"`        // Maze width in cells
	Height      int       `yaml:"height"`       // Maze height in cells
	Breadcrumbs bool      `yaml:"breadcrumbs"`  // Mark the route through the maze
	Erode       int       `yaml:"erode"`        // Number of wall erosion passes
	Color       ColorMode `yaml:"color"`        // auto, always or never
	LogLevel    string    `yaml:"log_level"`    // debug, info, warn or error
	JournalPath string    `yaml:"journal_path"` // Badger directory for the run journal; empty disables it
	MetricsFile string    `yaml:"metrics_file"` // Prometheus textfile to write after each run; empty disables it

	// Proposal cap per maze; 0 derives one from the maze size.
	MaxIterations int `yaml:"max_iterations"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	journal := ""
	if home, e := os.UserHomeDir(); e == nil {
		journal = filepath.Join(home, ".textmaze", "journal")
	}
	return Config{
		Width:       50,
		Height:      50,
		Breadcrumbs: true,
		Color:       ColorAuto,
		LogLevel:    "info",
		JournalPath: journal,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty and the file exists) and the environment. A .env file in
// the working directory is loaded first, if present.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, e := os.ReadFile(path)
		switch {
		case errors.Is(e, os.ErrNotExist):
			slog.Debug("Config file not found, using defaults", "path", path)
		case e != nil:
			return cfg, fmt.Errorf("failed to read the config file %s: %w", path, e)
		default:
			if e := yaml.Unmarshal(data, &cfg); e != nil {
				return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, e)
			}
		}
	}

	if e := godotenv.Load(); e != nil {
		slog.Debug(".env file not found or could not be loaded", "error", e)
	}
	if e := cfg.applyEnv(); e != nil {
		return cfg, e
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides settings with any MAZE_* variables that are set.
func (c *Config) applyEnv() error {
	var e error
	if c.Width, e = envInt("MAZE_WIDTH", c.Width); e != nil {
		return e
	}
	if c.Height, e = envInt("MAZE_HEIGHT", c.Height); e != nil {
		return e
	}
	if c.Erode, e = envInt("MAZE_ERODE", c.Erode); e != nil {
		return e
	}
	if c.MaxIterations, e = envInt("MAZE_MAX_ITERATIONS", c.MaxIterations); e != nil {
		return e
	}
	if c.Breadcrumbs, e = envBool("MAZE_BREADCRUMBS", c.Breadcrumbs); e != nil {
		return e
	}
	c.Color = ColorMode(getEnvWithDefault("MAZE_COLOR", string(c.Color)))
	c.LogLevel = getEnvWithDefault("MAZE_LOG_LEVEL", c.LogLevel)
	c.JournalPath = getEnvWithDefault("MAZE_JOURNAL_PATH", c.JournalPath)
	c.MetricsFile = getEnvWithDefault("MAZE_METRICS_FILE", c.MetricsFile)
	return nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("width and height must be at least 1, got %dx%d", c.Width, c.Height)
	}
	if c.Erode < 0 {
		return fmt.Errorf("erode must not be negative, got %d", c.Erode)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if _, e := ParseLogLevel(c.LogLevel); e != nil {
		return e
	}
	return nil
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if e := l.UnmarshalText([]byte(strings.ToUpper(level))); e != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, e)
	}
	return l, nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, e := strconv.Atoi(value)
	if e != nil {
		return defaultValue, fmt.Errorf("environment variable %s must be an integer: %w", key, e)
	}
	return n, nil
}

func envBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	b, e := strconv.ParseBool(value)
	if e != nil {
		return defaultValue, fmt.Errorf("environment variable %s must be a boolean: %w", key, e)
	}
	return b, nil
}
