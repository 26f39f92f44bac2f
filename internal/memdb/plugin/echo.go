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
	"fmt"
	"strings"
	"sync"

	"github.com/innovationmech/memdb/internal/memdb/command"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// EchoPlugin adds an ECHO command that prints its arguments.
type EchoPlugin struct {
	mu          sync.Mutex
	initialized bool
}

// NewEchoPlugin creates the echo plugin.
func NewEchoPlugin() *EchoPlugin {
	return &EchoPlugin{}
}

func (p *EchoPlugin) Name() string        { return "echo" }
func (p *EchoPlugin) Version() string     { return "1.0.0" }
func (p *EchoPlugin) Description() string { return "Echo input" }

// Initialize marks the plugin ready.
func (p *EchoPlugin) Initialize(_ interfaces.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	return nil
}

// Register adds the echo command.
func (p *EchoPlugin) Register(registrar command.Registrar) error {
	return registrar.Register(command.Command{
		Name:    "echo",
		Usage:   "ECHO [args...]",
		Help:    "Echo input",
		MinArgs: 0,
		MaxArgs: command.Unlimited,
		Handler: p.echo,
	})
}

func (p *EchoPlugin) echo(_ context.Context, args []string) (command.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return command.None(), fmt.Errorf("plugin %s not initialized", p.Name())
	}
	return command.Text(strings.Join(args, " ")), nil
}

// Cleanup resets the plugin.
func (p *EchoPlugin) Cleanup() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = false
	return nil
}

// Builtins returns the plugins shipped with memdb.
func Builtins() []Plugin {
	return []Plugin{NewEchoPlugin()}
}
