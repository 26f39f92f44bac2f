// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

// Package config loads and validates memdb configuration.
package config

import (
	"strings"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.yaml"

// Config is the typed view of the merged configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app" yaml:"app" json:"app"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging" json:"logging"`
	Database    DatabaseConfig    `mapstructure:"database" yaml:"database" json:"database"`
	CLI         CLIConfig         `mapstructure:"cli" yaml:"cli" json:"cli"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development" json:"development"`
	Plugins     PluginsConfig     `mapstructure:"plugins" yaml:"plugins" json:"plugins"`
}

// AppConfig describes the application itself.
type AppConfig struct {
	Name        string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`
	Version     string `mapstructure:"version" yaml:"version" json:"version" validate:"required"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// LoggingConfig selects log sinks, levels and formats.
type LoggingConfig struct {
	Level   string           `mapstructure:"level" yaml:"level" json:"level" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR CRITICAL FATAL"`
	Type    string           `mapstructure:"type" yaml:"type" json:"type" validate:"oneof=console file composite none"`
	File    FileLogConfig    `mapstructure:"file" yaml:"file" json:"file"`
	Console ConsoleLogConfig `mapstructure:"console" yaml:"console" json:"console"`
	Format  LogFormatConfig  `mapstructure:"format" yaml:"format" json:"format"`
}

// FileLogConfig configures the rotating file sink.
type FileLogConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path            string `mapstructure:"path" yaml:"path" json:"path" validate:"required_if=Enabled true"`
	FilenamePattern string `mapstructure:"filename_pattern" yaml:"filename_pattern" json:"filename_pattern" validate:"required_if=Enabled true"`
	MaxSize         string `mapstructure:"max_size" yaml:"max_size" json:"max_size"`
	BackupCount     int    `mapstructure:"backup_count" yaml:"backup_count" json:"backup_count" validate:"gte=0"`
}

// ConsoleLogConfig configures the stderr sink.
type ConsoleLogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Level   string `mapstructure:"level" yaml:"level" json:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR CRITICAL FATAL"`
}

// LogFormatConfig selects the encoder of each sink.
type LogFormatConfig struct {
	File    string `mapstructure:"file" yaml:"file" json:"file" validate:"oneof=json console"`
	Console string `mapstructure:"console" yaml:"console" json:"console" validate:"oneof=json console"`
}

// DatabaseConfig configures the store.
type DatabaseConfig struct {
	Type        string            `mapstructure:"type" yaml:"type" json:"type" validate:"eq=inmemory"`
	Search      string            `mapstructure:"search" yaml:"search" json:"search" validate:"oneof=index scan"`
	Transaction TransactionConfig `mapstructure:"transaction" yaml:"transaction" json:"transaction"`
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage" json:"storage"`
}

// TransactionConfig bounds transaction nesting.
type TransactionConfig struct {
	MaxDepth   int  `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth" validate:"gte=1"`
	AutoCommit bool `mapstructure:"auto_commit" yaml:"auto_commit" json:"auto_commit"`
}

// StorageConfig is accepted for compatibility; the store never persists.
type StorageConfig struct {
	Persistence    bool `mapstructure:"persistence" yaml:"persistence" json:"persistence"`
	BackupInterval int  `mapstructure:"backup_interval" yaml:"backup_interval" json:"backup_interval" validate:"gte=0"`
}

// CLIConfig configures the interactive shell.
type CLIConfig struct {
	Prompt       string `mapstructure:"prompt" yaml:"prompt" json:"prompt"`
	HistoryFile  string `mapstructure:"history_file" yaml:"history_file" json:"history_file"`
	AutoComplete bool   `mapstructure:"auto_complete" yaml:"auto_complete" json:"auto_complete"`
	Colors       bool   `mapstructure:"colors" yaml:"colors" json:"colors"`
	WatchConfig  bool   `mapstructure:"watch_config" yaml:"watch_config" json:"watch_config"`
}

// DevelopmentConfig holds development switches.
type DevelopmentConfig struct {
	Debug      bool `mapstructure:"debug" yaml:"debug" json:"debug"`
	TestMode   bool `mapstructure:"test_mode" yaml:"test_mode" json:"test_mode"`
	MockLogger bool `mapstructure:"mock_logger" yaml:"mock_logger" json:"mock_logger"`
}

// PluginsConfig lists the plugins to activate.
type PluginsConfig struct {
	Enabled    []string `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	MaxPlugins int      `mapstructure:"max_plugins" yaml:"max_plugins" json:"max_plugins" validate:"gte=0"`
}

// Defaults returns the built-in configuration as a nested settings map.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app": map[string]interface{}{
			"name":        "In-Memory Database CLI",
			"version":     "1.0.0",
			"description": "A command-line interface for an in-memory database with transaction support",
		},
		"logging": map[string]interface{}{
			"level": "INFO",
			"type":  "composite",
			"file": map[string]interface{}{
				"enabled":          true,
				"path":             "logs",
				"filename_pattern": "db_{date}.log",
				"max_size":         "10MB",
				"backup_count":     7,
			},
			"console": map[string]interface{}{
				"enabled": true,
				"level":   "WARNING",
			},
			"format": map[string]interface{}{
				"file":    "json",
				"console": "console",
			},
		},
		"database": map[string]interface{}{
			"type":   "inmemory",
			"search": "index",
			"transaction": map[string]interface{}{
				"max_depth":   100,
				"auto_commit": false,
			},
			"storage": map[string]interface{}{
				"persistence":     false,
				"backup_interval": 300,
			},
		},
		"cli": map[string]interface{}{
			"prompt":        ">",
			"history_file":  ".db_history",
			"auto_complete": true,
			"colors":        true,
			"watch_config":  false,
		},
		"development": map[string]interface{}{
			"debug":       false,
			"test_mode":   false,
			"mock_logger": false,
		},
		"plugins": map[string]interface{}{
			"enabled":     []string{"echo"},
			"max_plugins": 10,
		},
	}
}

// normalize canonicalizes case-insensitive fields before validation.
func (c *Config) normalize() {
	c.Logging.Level = strings.ToUpper(strings.TrimSpace(c.Logging.Level))
	c.Logging.Console.Level = strings.ToUpper(strings.TrimSpace(c.Logging.Console.Level))
	c.Logging.Type = strings.ToLower(strings.TrimSpace(c.Logging.Type))
	c.Logging.Format.File = strings.ToLower(strings.TrimSpace(c.Logging.Format.File))
	c.Logging.Format.Console = strings.ToLower(strings.TrimSpace(c.Logging.Format.Console))
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
	c.Database.Search = strings.ToLower(strings.TrimSpace(c.Database.Search))
}

// flatten turns a nested settings map into dotted leaf keys.
func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}
