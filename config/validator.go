package config

import (
	"encoding/json"
	"fmt"
	"slices"

	emucore "github.com/user-none/memexport/api"
)

// Limits for numeric fields.
const (
	maxFrames   = 1 << 20
	minHexWidth = 8
	maxHexWidth = 64
)

var validLevels = []string{LevelDebug, LevelInfo, LevelError}

// configKeys are the keys with defaults that detectPresentKeys looks for.
var configKeys = []string{
	"version", "frames", "regions", "outputDir", "dumpFrame", "logLevel", "hexWidth",
}

// detectPresentKeys returns the set of config keys that are explicitly
// present in the JSON bytes.
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for _, k := range configKeys {
		if _, ok := raw[k]; ok {
			present[k] = true
		}
	}
	return present
}

// ApplyMissingDefaults sets default values for config fields that are absent
// from the JSON file, preserving intentional zero values (e.g. frames=0).
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["frames"] {
		config.Frames = defaults.Frames
	}
	if !presentKeys["regions"] || config.Regions == nil {
		config.Regions = defaults.Regions
	}
	if !presentKeys["outputDir"] {
		config.OutputDir = defaults.OutputDir
	}
	if !presentKeys["dumpFrame"] {
		config.DumpFrame = defaults.DumpFrame
	}
	if !presentKeys["logLevel"] {
		config.LogLevel = defaults.LogLevel
	}
	if !presentKeys["hexWidth"] {
		config.HexWidth = defaults.HexWidth
	}
}

// ValidateConfig checks all config fields against valid ranges and returns
// human-readable error descriptions. An empty slice means the config is valid.
func ValidateConfig(config *Config) []string {
	var errors []string

	// version
	if config.Version != 1 {
		errors = append(errors, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}

	// frames
	if config.Frames < 0 || config.Frames > maxFrames {
		errors = append(errors, fmt.Sprintf("frames: %d (valid: 0-%d)", config.Frames, maxFrames))
	}

	// regions
	for _, name := range config.Regions {
		if _, ok := emucore.ParseRegion(name); !ok {
			errors = append(errors, fmt.Sprintf("regions: unknown region %q", name))
		}
	}

	// logLevel
	if !slices.Contains(validLevels, config.LogLevel) {
		errors = append(errors, fmt.Sprintf("logLevel: %q (valid: %v)", config.LogLevel, validLevels))
	}

	// hexWidth
	if !validHexWidth(config.HexWidth) {
		errors = append(errors, fmt.Sprintf("hexWidth: %d (valid: 0 or %d-%d)", config.HexWidth, minHexWidth, maxHexWidth))
	}

	return errors
}

// CorrectConfig resets any invalid fields to their defaults from
// DefaultConfig(). Valid fields are preserved; unknown region names are
// dropped.
func CorrectConfig(config *Config) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}
	if config.Frames < 0 || config.Frames > maxFrames {
		config.Frames = defaults.Frames
	}
	config.Regions = slices.DeleteFunc(config.Regions, func(name string) bool {
		_, ok := emucore.ParseRegion(name)
		return !ok
	})
	if !slices.Contains(validLevels, config.LogLevel) {
		config.LogLevel = defaults.LogLevel
	}
	if !validHexWidth(config.HexWidth) {
		config.HexWidth = defaults.HexWidth
	}
	return config
}

// validHexWidth accepts 0, meaning the width follows the terminal.
func validHexWidth(w int) bool {
	return w == 0 || (w >= minHexWidth && w <= maxHexWidth)
}
