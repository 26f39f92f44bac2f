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

package plugin

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// Manager owns the plugin lifecycle: registration, activation and cleanup.
type Manager struct {
	plugins  map[string]Plugin
	order    []string
	registry *PluginRegistry
	config   *ManagerConfig
	logger   interfaces.Logger
	mu       sync.RWMutex
}

// NewManager creates a plugin manager.
func NewManager(config *ManagerConfig, logger interfaces.Logger) *Manager {
	if config == nil {
		config = &ManagerConfig{MaxPlugins: 10}
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Manager{
		plugins:  make(map[string]Plugin),
		registry: NewPluginRegistry(),
		config:   config,
		logger:   logger,
	}
}

// RegisterPlugin adds a plugin. It is activated by InitializeAll.
func (pm *Manager) RegisterPlugin(plugin Plugin) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return interfaces.NewPluginError(
			interfaces.ErrCodePluginInitError,
			"Plugin name cannot be empty",
			nil,
		)
	}
	if _, exists := pm.plugins[name]; exists {
		return interfaces.NewPluginError(
			interfaces.ErrCodePluginInitError,
			fmt.Sprintf("Plugin already registered: %s", name),
			nil,
		)
	}
	if pm.config.MaxPlugins > 0 && len(pm.plugins) >= pm.config.MaxPlugins {
		return interfaces.NewPluginError(
			interfaces.ErrCodePluginInitError,
			fmt.Sprintf("Maximum plugin limit reached: %d", pm.config.MaxPlugins),
			nil,
		)
	}

	pm.plugins[name] = plugin
	pm.order = append(pm.order, name)
	pm.registry.RegisterPlugin(name, &PluginInfo{
		Metadata: PluginMetadata{
			Name:         name,
			Version:      plugin.Version(),
			Description:  plugin.Description(),
			RegisteredAt: time.Now(),
		},
		Status: PluginStatusRegistered,
		Plugin: plugin,
	})

	pm.logger.Debug("Plugin registered", "name", name, "version", plugin.Version())
	return nil
}

func (pm *Manager) enabled(name string) bool {
	for _, n := range pm.config.Enabled {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

// InitializeAll initializes every enabled plugin in registration order and
// lets it register its commands. Plugins not listed in the configuration are
// marked disabled. A failing plugin is marked as errored and the remaining
// plugins are still processed; the first failure is returned.
func (pm *Manager) InitializeAll(registrar command.Registrar) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, n := range pm.config.Enabled {
		found := false
		for name := range pm.plugins {
			if strings.EqualFold(strings.TrimSpace(n), name) {
				found = true
				break
			}
		}
		if !found {
			pm.logger.Warn("Enabled plugin is not available", "name", n)
		}
	}

	var firstErr error
	for _, name := range pm.order {
		plugin := pm.plugins[name]
		if !pm.enabled(name) {
			pm.registry.UpdatePluginStatus(name, PluginStatusDisabled, nil)
			continue
		}

		cfg := interfaces.PluginConfig{
			Name:    name,
			Version: plugin.Version(),
			Enabled: true,
			Config:  pm.config.Settings[name],
		}
		if err := plugin.Initialize(cfg); err != nil {
			firstErr = pm.fail(name, firstErr, fmt.Sprintf("Plugin initialization failed: %s", name), err)
			continue
		}
		pm.registry.UpdatePluginStatus(name, PluginStatusInitialized, nil)

		if err := plugin.Register(registrar); err != nil {
			firstErr = pm.fail(name, firstErr, fmt.Sprintf("Plugin command registration failed: %s", name), err)
			continue
		}
		pm.registry.UpdatePluginStatus(name, PluginStatusActive, nil)
		pm.logger.Info("Plugin activated", "name", name, "version", plugin.Version())
	}

	failed := pm.registry.GetPluginsByStatus(PluginStatusError)
	names := make([]string, 0, len(failed))
	for _, info := range failed {
		names = append(names, info.Metadata.Name)
	}
	pm.logger.Debug("Plugins initialized",
		"active", len(pm.registry.GetPluginsByStatus(PluginStatusActive)),
		"disabled", len(pm.registry.GetPluginsByStatus(PluginStatusDisabled)),
		"failed", names)
	return firstErr
}

func (pm *Manager) fail(name string, firstErr error, msg string, cause error) error {
	pm.registry.UpdatePluginStatus(name, PluginStatusError, cause)
	pm.logger.Error(msg, "name", name, "error", cause)
	if firstErr != nil {
		return firstErr
	}
	return interfaces.NewPluginError(interfaces.ErrCodePluginInitError, msg, cause)
}

// CleanupAll cleans up every initialized plugin in reverse registration order.
func (pm *Manager) CleanupAll() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var errs []error
	for i := len(pm.order) - 1; i >= 0; i-- {
		name := pm.order[i]
		info, _ := pm.registry.GetPluginInfo(name)
		if info == nil || (info.Status != PluginStatusActive && info.Status != PluginStatusInitialized) {
			continue
		}
		if err := pm.plugins[name].Cleanup(); err != nil {
			pm.logger.Warn("Plugin cleanup failed", "name", name, "error", err)
			pm.registry.UpdatePluginStatus(name, PluginStatusError, err)
			errs = append(errs, err)
			continue
		}
		pm.registry.UpdatePluginStatus(name, PluginStatusRegistered, nil)
	}

	if len(errs) > 0 {
		return interfaces.NewPluginError(
			interfaces.ErrCodePluginExecError,
			"Some plugins failed to cleanup",
			errs[0],
		)
	}
	return nil
}

// GetPlugin retrieves a plugin by name.
func (pm *Manager) GetPlugin(name string) (Plugin, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	plugin, exists := pm.plugins[name]
	return plugin, exists
}

// ListPlugins returns all registered plugin names, sorted.
func (pm *Manager) ListPlugins() []string {
	return pm.registry.ListPlugins()
}

// GetPluginInfo returns detailed information about a plugin.
func (pm *Manager) GetPluginInfo(name string) (*PluginInfo, error) {
	info, exists := pm.registry.GetPluginInfo(name)
	if !exists {
		return nil, interfaces.NewPluginError(
			interfaces.ErrCodePluginNotFound,
			fmt.Sprintf("Plugin not found: %s", name),
			nil,
		)
	}
	return info, nil
}

// Statistics returns plugin counts by status.
func (pm *Manager) Statistics() RegistryStatistics {
	return pm.registry.GetStatistics()
}
