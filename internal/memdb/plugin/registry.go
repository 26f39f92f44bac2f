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
	"sort"
	"sync"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// PluginRegistry tracks plugin metadata and status.
type PluginRegistry struct {
	plugins map[string]*PluginInfo
	mu      sync.RWMutex
}

// NewPluginRegistry creates a new plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		plugins: make(map[string]*PluginInfo),
	}
}

// RegisterPlugin records a plugin under name.
func (r *PluginRegistry) RegisterPlugin(name string, info *PluginInfo) error {
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	if info == nil {
		return fmt.Errorf("plugin info cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins[name] = info
	return nil
}

// GetPluginInfo retrieves plugin information by name.
func (r *PluginRegistry) GetPluginInfo(name string) (*PluginInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.plugins[name]
	return info, exists
}

// ListPlugins returns a sorted list of plugin names.
func (r *PluginRegistry) ListPlugins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPluginsByStatus returns plugins filtered by status, sorted by name.
func (r *PluginRegistry) GetPluginsByStatus(status PluginStatus) []*PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*PluginInfo
	for _, info := range r.plugins {
		if info.Status == status {
			matches = append(matches, info)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Metadata.Name < matches[j].Metadata.Name
	})
	return matches
}

// UpdatePluginStatus updates the status of a plugin. A non-nil cause is
// recorded as the plugin error.
func (r *PluginRegistry) UpdatePluginStatus(name string, status PluginStatus, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.plugins[name]
	if !exists {
		return interfaces.NewPluginError(
			interfaces.ErrCodePluginNotFound,
			"Plugin not found: "+name,
			nil,
		)
	}

	info.Status = status
	info.Error = ""
	if cause != nil {
		info.Error = cause.Error()
	}
	return nil
}

// GetStatistics returns registry statistics.
func (r *PluginRegistry) GetStatistics() RegistryStatistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStatistics{
		TotalPlugins: len(r.plugins),
		StatusCounts: make(map[PluginStatus]int),
	}
	for _, info := range r.plugins {
		stats.StatusCounts[info.Status]++
	}
	return stats
}
