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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
	"github.com/innovationmech/memdb/internal/memdb/store"
	"github.com/innovationmech/memdb/internal/memdb/testutil"
)

// TestPlugin is a configurable plugin for manager tests.
type TestPlugin struct {
	name        string
	initErr     error
	registerErr error
	cleanupErr  error
	initialized bool
	cleaned     bool
	config      interfaces.PluginConfig
}

func NewTestPlugin(name string) *TestPlugin {
	return &TestPlugin{name: name}
}

func (p *TestPlugin) Name() string        { return p.name }
func (p *TestPlugin) Version() string     { return "0.1.0" }
func (p *TestPlugin) Description() string { return fmt.Sprintf("Test plugin %s", p.name) }

func (p *TestPlugin) Initialize(config interfaces.PluginConfig) error {
	if p.initErr != nil {
		return p.initErr
	}
	p.config = config
	p.initialized = true
	return nil
}

func (p *TestPlugin) Register(registrar command.Registrar) error {
	if p.registerErr != nil {
		return p.registerErr
	}
	return registrar.Register(command.Command{
		Name: p.name,
		Handler: func(context.Context, []string) (command.Result, error) {
			return command.Text(p.name), nil
		},
	})
}

func (p *TestPlugin) Cleanup() error {
	p.cleaned = true
	return p.cleanupErr
}

func newRegistry(t *testing.T) *command.Registry {
	t.Helper()
	r, err := command.NewRegistry(store.NewEngine(), nil)
	require.NoError(t, err)
	return r
}

func TestManager_RegisterPlugin(t *testing.T) {
	pm := NewManager(&ManagerConfig{MaxPlugins: 2}, testutil.NewMockLogger())

	require.NoError(t, pm.RegisterPlugin(NewTestPlugin("b")))
	require.NoError(t, pm.RegisterPlugin(NewTestPlugin("a")))
	assert.Equal(t, []string{"a", "b"}, pm.ListPlugins())

	err := pm.RegisterPlugin(NewTestPlugin("c"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maximum plugin limit reached")

	pm = NewManager(nil, nil)
	require.NoError(t, pm.RegisterPlugin(NewTestPlugin("a")))
	err = pm.RegisterPlugin(NewTestPlugin("a"))
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginInitError))
	err = pm.RegisterPlugin(NewTestPlugin(""))
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginInitError))

	info, err := pm.GetPluginInfo("a")
	require.NoError(t, err)
	assert.Equal(t, PluginStatusRegistered, info.Status)
	assert.Equal(t, "Test plugin a", info.Metadata.Description)
}

func TestManager_InitializeAll(t *testing.T) {
	pm := NewManager(&ManagerConfig{
		Enabled:  []string{"on", "missing"},
		Settings: map[string]map[string]string{"on": {"greeting": "hi"}},
	}, testutil.NewMockLogger())
	on := NewTestPlugin("on")
	off := NewTestPlugin("off")
	require.NoError(t, pm.RegisterPlugin(on))
	require.NoError(t, pm.RegisterPlugin(off))

	reg := newRegistry(t)
	require.NoError(t, pm.InitializeAll(reg))

	assert.True(t, on.initialized)
	assert.Equal(t, "hi", on.config.Config["greeting"])
	assert.False(t, off.initialized)
	assert.True(t, reg.Has("on"))
	assert.False(t, reg.Has("off"))

	info, err := pm.GetPluginInfo("on")
	require.NoError(t, err)
	assert.Equal(t, PluginStatusActive, info.Status)
	info, err = pm.GetPluginInfo("off")
	require.NoError(t, err)
	assert.Equal(t, PluginStatusDisabled, info.Status)

	stats := pm.Statistics()
	assert.Equal(t, 2, stats.TotalPlugins)
	assert.Equal(t, 1, stats.StatusCounts[PluginStatusActive])
}

func TestManager_InitializeAllFailures(t *testing.T) {
	logger := testutil.NewMockLogger()
	pm := NewManager(&ManagerConfig{Enabled: []string{"bad-init", "bad-register", "good"}}, logger)

	badInit := NewTestPlugin("bad-init")
	badInit.initErr = errors.New("no config")
	badRegister := NewTestPlugin("bad-register")
	badRegister.registerErr = errors.New("name clash")
	good := NewTestPlugin("good")
	for _, p := range []Plugin{badInit, badRegister, good} {
		require.NoError(t, pm.RegisterPlugin(p))
	}

	reg := newRegistry(t)
	err := pm.InitializeAll(reg)
	require.Error(t, err)
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginInitError))
	assert.Contains(t, err.Error(), "bad-init")
	assert.True(t, reg.Has("good"), "later plugins are still activated")

	info, _ := pm.GetPluginInfo("bad-register")
	assert.Equal(t, PluginStatusError, info.Status)
	assert.Equal(t, "name clash", info.Error)
	assert.Len(t, logger.Entries("error"), 2)

	summary := logger.Entries("debug")
	require.NotEmpty(t, summary)
	last := summary[len(summary)-1]
	assert.Equal(t, "Plugins initialized", last.Message)
	assert.Equal(t, []interface{}{
		"active", 1,
		"disabled", 0,
		"failed", []string{"bad-init", "bad-register"},
	}, last.Fields)
}

func TestManager_CleanupAll(t *testing.T) {
	pm := NewManager(&ManagerConfig{Enabled: []string{"a", "b"}}, nil)
	a := NewTestPlugin("a")
	b := NewTestPlugin("b")
	b.cleanupErr = errors.New("stuck")
	c := NewTestPlugin("c")
	for _, p := range []Plugin{a, b, c} {
		require.NoError(t, pm.RegisterPlugin(p))
	}
	require.NoError(t, pm.InitializeAll(newRegistry(t)))

	err := pm.CleanupAll()
	require.Error(t, err)
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginExecError))
	assert.True(t, a.cleaned)
	assert.True(t, b.cleaned)
	assert.False(t, c.cleaned, "disabled plugins are not cleaned up")

	info, _ := pm.GetPluginInfo("a")
	assert.Equal(t, PluginStatusRegistered, info.Status)
}

func TestManager_GetPluginInfoNotFound(t *testing.T) {
	pm := NewManager(nil, nil)
	_, err := pm.GetPluginInfo("ghost")
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginNotFound))

	_, ok := pm.GetPlugin("ghost")
	assert.False(t, ok)
}

func TestEchoPlugin(t *testing.T) {
	pm := NewManager(&ManagerConfig{Enabled: []string{"ECHO"}}, nil)
	for _, p := range Builtins() {
		require.NoError(t, pm.RegisterPlugin(p))
	}
	reg := newRegistry(t)
	require.NoError(t, pm.InitializeAll(reg))

	res, err := reg.Execute(context.Background(), "ECHO", "hello", "world")
	require.NoError(t, err)
	line, show := res.Render()
	assert.True(t, show)
	assert.Equal(t, "hello world", line)

	res, err = reg.Execute(context.Background(), "echo")
	require.NoError(t, err)
	line, _ = res.Render()
	assert.Equal(t, "", line)

	_, ok := pm.GetPlugin("echo")
	require.True(t, ok)

	require.NoError(t, pm.CleanupAll())
	_, err = reg.Execute(context.Background(), "echo", "x")
	assert.Error(t, err, "echo refuses to run after cleanup")
}

func TestPluginRegistry(t *testing.T) {
	r := NewPluginRegistry()
	assert.Error(t, r.RegisterPlugin("", &PluginInfo{}))
	assert.Error(t, r.RegisterPlugin("x", nil))

	require.NoError(t, r.RegisterPlugin("x", &PluginInfo{Metadata: PluginMetadata{Name: "x"}, Status: PluginStatusDisabled}))
	assert.Len(t, r.GetPluginsByStatus(PluginStatusDisabled), 1)

	err := r.UpdatePluginStatus("missing", PluginStatusActive, nil)
	assert.True(t, interfaces.IsCode(err, interfaces.ErrCodePluginNotFound))

	assert.Empty(t, r.GetPluginsByStatus(PluginStatusActive))
	assert.Equal(t, []string{"x"}, r.ListPlugins())
}
