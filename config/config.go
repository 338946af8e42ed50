// Package config handles the inspector's JSON configuration and logger setup.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
)

// Log levels accepted in the logLevel field.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

// Config holds the defaults for an inspection run. Command line flags
// override individual fields.
type Config struct {
	Version   int      `json:"version"`
	Frames    int      `json:"frames"`
	Regions   []string `json:"regions"`
	OutputDir string   `json:"outputDir"`
	DumpFrame bool     `json:"dumpFrame"`
	LogLevel  string   `json:"logLevel"`
	Script    string   `json:"script,omitempty"`
	HexWidth  int      `json:"hexWidth"`
}

// DefaultConfig returns a configuration that steps one frame, prints the
// region table and dumps nothing.
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		Frames:    1,
		Regions:   []string{},
		OutputDir: "",
		DumpFrame: false,
		LogLevel:  LevelInfo,
		HexWidth:  0,
	}
}

// CreateLogger creates a logger for the given level name. Unknown names
// log at the default level.
func CreateLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	switch level {
	case LevelDebug:
		cfg.Level = log.DebugLevel
	case LevelError:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// LoadConfig loads the configuration at path.
// If the file doesn't exist, it returns the default configuration.
// Missing fields (absent from JSON) are defaulted; present zero values are
// kept.
func LoadConfig(path string) (*Config, error) {
	jsonBytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	ApplyMissingDefaults(config, detectPresentKeys(jsonBytes))
	return config, nil
}

// SaveConfig saves the configuration to path atomically.
func SaveConfig(path string, config *Config) error {
	return AtomicWriteJSON(path, config)
}

// AtomicWriteJSON writes data as indented JSON to a temporary file next to
// path and renames it into place.
func AtomicWriteJSON(path string, data any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
