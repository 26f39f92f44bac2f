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

// Package app assembles a memdb instance from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/config"
	"github.com/innovationmech/memdb/internal/memdb/deps"
	"github.com/innovationmech/memdb/internal/memdb/logger"
	"github.com/innovationmech/memdb/internal/memdb/plugin"
	"github.com/innovationmech/memdb/internal/memdb/store"
)

// Options control how an App is built.
type Options struct {
	// ConfigPath is the YAML file to load. Defaults to config.DefaultPath.
	ConfigPath string
	// Overrides are applied on top of the loaded configuration, keyed by
	// dotted setting name.
	Overrides map[string]interface{}
	// LogWriter replaces stderr as the console log sink.
	LogWriter io.Writer
	// Plugins replaces the built-in plugin set.
	Plugins []plugin.Plugin
}

// App holds the wired components of one memdb instance.
type App struct {
	Config   *config.Manager
	Settings *config.Config
	Logger   *logger.Logger
	Store    *store.Engine
	Registry *command.Registry
	Plugins  *plugin.Manager

	container *deps.Container
}

// New loads the configuration and builds every component.
func New(opts Options) (*App, error) {
	c, err := NewContainer(opts)
	if err != nil {
		return nil, err
	}

	a := &App{container: c}
	if a.Config, err = deps.Resolve[*config.Manager](c, deps.ServiceConfigManager); err != nil {
		return nil, err
	}
	if a.Settings, err = a.Config.Config(); err != nil {
		return nil, err
	}
	if a.Logger, err = deps.Resolve[*logger.Logger](c, deps.ServiceLogger); err != nil {
		return nil, err
	}
	for _, w := range a.Config.Warnings() {
		a.Logger.Warn("Could not load config, using defaults", "path", a.Config.Path(), "reason", w)
	}
	if a.Store, err = deps.Resolve[*store.Engine](c, deps.ServiceStore); err != nil {
		return nil, err
	}
	if a.Registry, err = deps.Resolve[*command.Registry](c, deps.ServiceCommandRegistry); err != nil {
		return nil, err
	}
	if a.Plugins, err = deps.Resolve[*plugin.Manager](c, deps.ServicePluginManager); err != nil {
		return nil, err
	}

	a.Logger.Info("Application initialized",
		"app", a.Settings.App.Name,
		"version", a.Settings.App.Version,
		"search", a.Store.Strategy(),
		"plugins", a.Plugins.ListPlugins(),
		"active_plugins", a.Plugins.Statistics().StatusCounts[plugin.PluginStatusActive],
		"services", c.ListServices())
	return a, nil
}

// NewContainer loads the configuration and registers every other memdb
// component as a lazily built singleton.
func NewContainer(opts Options) (*deps.Container, error) {
	c := deps.NewContainer()

	m := config.NewManager(opts.ConfigPath)
	// load problems are recorded as warnings and reported once a logger exists
	_ = m.Load()
	for k, v := range opts.Overrides {
		m.Set(k, v)
	}
	if err := c.RegisterInstance(deps.ServiceConfigManager, m); err != nil {
		return nil, err
	}

	factories := []struct {
		name    string
		factory deps.ServiceFactory
	}{
		{deps.ServiceLogger, loggerFactory(c, opts)},
		{deps.ServiceStore, storeFactory(c)},
		{deps.ServiceCommandRegistry, registryFactory(c)},
		{deps.ServicePluginManager, pluginManagerFactory(c, opts)},
	}
	for _, f := range factories {
		if err := c.RegisterSingleton(f.name, f.factory); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func loggerFactory(c *deps.Container, opts Options) deps.ServiceFactory {
	return func() (interface{}, error) {
		m, err := deps.Resolve[*config.Manager](c, deps.ServiceConfigManager)
		if err != nil {
			return nil, err
		}
		cfg, err := m.Config()
		if err != nil {
			return nil, err
		}
		if cfg.Development.MockLogger {
			return logger.NewNop(), nil
		}
		var lopts []logger.Option
		if opts.LogWriter != nil {
			lopts = append(lopts, logger.WithConsoleWriter(opts.LogWriter))
		}
		level := cfg.Logging
		if cfg.Development.Debug {
			level.Level = "DEBUG"
		}
		return logger.New(level, lopts...)
	}
}

func storeFactory(c *deps.Container) deps.ServiceFactory {
	return func() (interface{}, error) {
		m, err := deps.Resolve[*config.Manager](c, deps.ServiceConfigManager)
		if err != nil {
			return nil, err
		}
		log, err := deps.Resolve[*logger.Logger](c, deps.ServiceLogger)
		if err != nil {
			return nil, err
		}
		strategy, err := store.ParseSearchStrategy(m.Database().Search)
		if err != nil {
			return nil, err
		}
		return store.NewEngine(
			store.WithSearchStrategy(strategy),
			store.WithLogger(log.With("component", "store")),
		), nil
	}
}

func registryFactory(c *deps.Container) deps.ServiceFactory {
	return func() (interface{}, error) {
		m, err := deps.Resolve[*config.Manager](c, deps.ServiceConfigManager)
		if err != nil {
			return nil, err
		}
		log, err := deps.Resolve[*logger.Logger](c, deps.ServiceLogger)
		if err != nil {
			return nil, err
		}
		db, err := deps.Resolve[*store.Engine](c, deps.ServiceStore)
		if err != nil {
			return nil, err
		}
		return command.NewRegistry(db, log.With("component", "dispatcher"),
			command.WithMaxDepth(m.Database().Transaction.MaxDepth))
	}
}

func pluginManagerFactory(c *deps.Container, opts Options) deps.ServiceFactory {
	return func() (interface{}, error) {
		m, err := deps.Resolve[*config.Manager](c, deps.ServiceConfigManager)
		if err != nil {
			return nil, err
		}
		log, err := deps.Resolve[*logger.Logger](c, deps.ServiceLogger)
		if err != nil {
			return nil, err
		}
		registry, err := deps.Resolve[*command.Registry](c, deps.ServiceCommandRegistry)
		if err != nil {
			return nil, err
		}
		cfg, err := m.Config()
		if err != nil {
			return nil, err
		}

		pm := plugin.NewManager(&plugin.ManagerConfig{
			Enabled:    cfg.Plugins.Enabled,
			MaxPlugins: cfg.Plugins.MaxPlugins,
		}, log.With("component", "plugins"))

		plugins := opts.Plugins
		if plugins == nil {
			plugins = plugin.Builtins()
		}
		for _, p := range plugins {
			if err := pm.RegisterPlugin(p); err != nil {
				return nil, err
			}
		}
		// failed plugins are logged and left in error status
		_ = pm.InitializeAll(registry)
		return pm, nil
	}
}

// WatchConfig reapplies the logging level whenever the configuration file
// changes. It is a no-op unless cli.watch_config is set.
func (a *App) WatchConfig(ctx context.Context) error {
	if !a.Settings.CLI.WatchConfig {
		return nil
	}
	return a.Config.Watch(ctx, func(cfg *config.Config) {
		if err := a.Logger.SetLevel(cfg.Logging.Level); err != nil {
			a.Logger.Warn("Could not apply reloaded log level", "error", err)
		}
	})
}

// Close cleans up plugins and flushes the logger. It is safe to call twice.
func (a *App) Close() error {
	if a.container.IsClosed() {
		return nil
	}

	var errs []error
	if err := a.Plugins.CleanupAll(); err != nil {
		errs = append(errs, err)
	}
	a.Logger.Info("Application shut down")
	if err := a.Logger.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("flush logs: %w", err))
	}
	if err := a.container.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
