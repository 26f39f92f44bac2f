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

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// DefaultEnvPrefix is the prefix for environment overrides, e.g. MEMDB_LOGGING_LEVEL.
const DefaultEnvPrefix = "MEMDB"

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger that receives load warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEnvPrefix overrides the environment variable prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) {
		m.envPrefix = prefix
	}
}

// Manager loads the YAML configuration file over built-in defaults. Values
// may be overridden by MEMDB_<SECTION>_<KEY> environment variables.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	path      string
	envPrefix string
	logger    interfaces.Logger
	validate  *validator.Validate
	warnings  []string
}

// NewManager creates a manager for the file at path. Defaults are in effect
// until Load is called.
func NewManager(path string, opts ...Option) *Manager {
	if path == "" {
		path = DefaultPath
	}
	m := &Manager{
		path:      path,
		envPrefix: DefaultEnvPrefix,
		logger:    interfaces.NopLogger{},
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.v = m.newViper()
	return m
}

func (m *Manager) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	leaves := make(map[string]interface{})
	flatten("", Defaults(), leaves)
	for key, value := range leaves {
		v.SetDefault(key, value)
	}

	if m.envPrefix != "" {
		v.SetEnvPrefix(m.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return v
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the configuration file. A missing file leaves the defaults in
// effect. An unreadable or malformed file is reported as a warning and the
// returned error, and the defaults stay in effect.
func (m *Manager) Load() error {
	v := m.newViper()
	err := m.mergeFileIfExists(v)

	m.mu.Lock()
	m.v = v
	if err != nil {
		m.warnings = append(m.warnings, err.Error())
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("could not load config, using defaults", "path", m.path, "error", err)
		return err
	}
	return nil
}

// mergeFileIfExists merges the file into v. Parsing happens in a scratch
// viper so a bad file never leaves partial settings behind.
func (m *Manager) mergeFileIfExists(v *viper.Viper) error {
	info, err := os.Stat(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return interfaces.NewConfigError(interfaces.ErrCodeConfigNotFound, fmt.Sprintf("stat %s", m.path), err)
	}
	if info.IsDir() {
		return interfaces.NewConfigError(interfaces.ErrCodeConfigNotFound, fmt.Sprintf("%s is a directory", m.path), nil)
	}

	content, err := os.ReadFile(m.path)
	if err != nil {
		return interfaces.NewConfigError(interfaces.ErrCodeConfigNotFound, fmt.Sprintf("read %s", m.path), err)
	}

	tmp := viper.New()
	tmp.SetConfigType("yaml")
	if err := tmp.ReadConfig(bytes.NewReader(content)); err != nil {
		return interfaces.NewConfigError(interfaces.ErrCodeConfigParseError, fmt.Sprintf("parse %s", m.path), err)
	}
	return v.MergeConfigMap(tmp.AllSettings())
}

// Warnings returns the problems recorded by previous loads.
func (m *Manager) Warnings() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// Set overrides a value for the lifetime of the manager.
func (m *Manager) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.v.Set(key, value)
}

// Get returns a value by dotted key, or nil when it is not set.
func (m *Manager) Get(key string) interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.Get(key)
}

// GetOr returns the value at key, or def when the key is not set.
func (m *Manager) GetOr(key string, def interface{}) interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.v.IsSet(key) {
		return def
	}
	return m.v.Get(key)
}

func (m *Manager) GetString(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.GetString(key)
}

func (m *Manager) GetInt(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.GetInt(key)
}

func (m *Manager) GetBool(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.GetBool(key)
}

// AllSettings returns a copy of all merged settings as a map.
func (m *Manager) AllSettings() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.AllSettings()
}

// Logging returns the logging section.
func (m *Manager) Logging() LoggingConfig {
	var out LoggingConfig
	m.unmarshalKey("logging", &out)
	return out
}

// Database returns the database section.
func (m *Manager) Database() DatabaseConfig {
	var out DatabaseConfig
	m.unmarshalKey("database", &out)
	return out
}

// CLI returns the cli section.
func (m *Manager) CLI() CLIConfig {
	var out CLIConfig
	m.unmarshalKey("cli", &out)
	return out
}

// IsDevelopment reports whether development.debug is on.
func (m *Manager) IsDevelopment() bool {
	return m.GetBool("development.debug")
}

// IsTestMode reports whether development.test_mode is on.
func (m *Manager) IsTestMode() bool {
	return m.GetBool("development.test_mode")
}

func (m *Manager) unmarshalKey(key string, target interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.v.UnmarshalKey(key, target); err != nil {
		m.logger.Warn("could not decode config section", "section", key, "error", err)
	}
}

// Config decodes and validates the merged settings.
func (m *Manager) Config() (*Config, error) {
	m.mu.RLock()
	var cfg Config
	err := m.v.Unmarshal(&cfg)
	m.mu.RUnlock()
	if err != nil {
		return nil, interfaces.NewConfigError(interfaces.ErrCodeConfigParseError, "decode config", err)
	}

	cfg.normalize()
	if err := m.validate.Struct(&cfg); err != nil {
		return nil, interfaces.NewConfigError(interfaces.ErrCodeConfigValidation, "invalid config", err)
	}
	return &cfg, nil
}
