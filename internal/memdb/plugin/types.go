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

// Package plugin lets optional components contribute commands to the dispatcher.
package plugin

import (
	"time"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// Plugin contributes commands to a registry.
type Plugin interface {
	// Name returns the unique plugin name.
	Name() string
	// Version returns the plugin version.
	Version() string
	// Description returns a one-line description.
	Description() string
	// Initialize prepares the plugin before it registers commands.
	Initialize(config interfaces.PluginConfig) error
	// Register adds the plugin's commands.
	Register(registrar command.Registrar) error
	// Cleanup releases plugin resources.
	Cleanup() error
}

// ManagerConfig represents configuration for the plugin manager.
type ManagerConfig struct {
	// Enabled lists the plugins to activate. Registered plugins not listed stay disabled.
	Enabled    []string                     `yaml:"enabled" json:"enabled"`
	MaxPlugins int                          `yaml:"max_plugins" json:"max_plugins"`
	Settings   map[string]map[string]string `yaml:"settings" json:"settings"`
}

// PluginMetadata represents metadata for a plugin.
type PluginMetadata struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Description  string    `json:"description"`
	RegisteredAt time.Time `json:"registered_at"`
}

// PluginStatus represents the status of a plugin.
type PluginStatus string

const (
	PluginStatusRegistered  PluginStatus = "registered"
	PluginStatusInitialized PluginStatus = "initialized"
	PluginStatusActive      PluginStatus = "active"
	PluginStatusError       PluginStatus = "error"
	PluginStatusDisabled    PluginStatus = "disabled"
)

// PluginInfo provides detailed information about a plugin.
type PluginInfo struct {
	Metadata PluginMetadata `json:"metadata"`
	Status   PluginStatus   `json:"status"`
	Error    string         `json:"error,omitempty"`
	Plugin   Plugin         `json:"-"`
}

// RegistryStatistics summarizes registry contents.
type RegistryStatistics struct {
	TotalPlugins int                  `json:"total_plugins"`
	StatusCounts map[PluginStatus]int `json:"status_counts"`
}
