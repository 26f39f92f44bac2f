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

// Package command maps command names to store operations for the memdb front ends.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// Unlimited as MaxArgs accepts any number of arguments above MinArgs.
const Unlimited = -1

// Handler executes a command with already arity-checked arguments.
type Handler func(ctx context.Context, args []string) (Result, error)

// Command describes one dispatcher entry.
type Command struct {
	Name    string
	Usage   string
	Help    string
	MinArgs int
	MaxArgs int
	Handler Handler
}

func (c Command) accepts(n int) bool {
	if n < c.MinArgs {
		return false
	}
	return c.MaxArgs == Unlimited || n <= c.MaxArgs
}

// Registrar is the part of the registry exposed to plugins.
type Registrar interface {
	Register(cmd Command) error
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxDepth sets the nesting level above which BEGIN logs a warning.
// Zero disables the check.
func WithMaxDepth(n int) Option {
	return func(r *Registry) {
		r.maxDepth = n
	}
}

// WithMetrics sets the metrics sink. NewRegistry creates one when absent.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// Registry dispatches commands by case-insensitive name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	db       interfaces.Database
	logger   interfaces.Logger
	metrics  *Metrics
	maxDepth int
}

var _ Registrar = (*Registry)(nil)

// NewRegistry creates a registry over db with the built-in commands registered.
func NewRegistry(db interfaces.Database, logger interfaces.Logger, opts ...Option) (*Registry, error) {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	r := &Registry{
		commands: make(map[string]Command),
		db:       db,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		m, err := NewMetrics(nil)
		if err != nil {
			return nil, err
		}
		r.metrics = m
	}

	for _, cmd := range r.builtins() {
		if err := r.Register(cmd); err != nil {
			return nil, fmt.Errorf("register %s: %w", cmd.Name, err)
		}
	}
	return r, nil
}

// Register adds a command. Names are case-insensitive and must be unique.
func (r *Registry) Register(cmd Command) error {
	name := strings.ToLower(strings.TrimSpace(cmd.Name))
	if name == "" {
		return interfaces.NewInvalidInputError("command name cannot be empty")
	}
	if cmd.Handler == nil {
		return interfaces.NewInvalidInputError(fmt.Sprintf("command '%s' has no handler", name))
	}
	if cmd.MinArgs < 0 || (cmd.MaxArgs != Unlimited && cmd.MaxArgs < cmd.MinArgs) {
		return interfaces.NewInvalidInputError(fmt.Sprintf("command '%s' has an invalid argument range", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return interfaces.NewInvalidInputError(fmt.Sprintf("command '%s' is already registered", name))
	}
	cmd.Name = name
	r.commands[name] = cmd
	return nil
}

func (r *Registry) lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Execute runs the named command.
func (r *Registry) Execute(ctx context.Context, name string, args ...string) (Result, error) {
	cmd, ok := r.lookup(name)
	if !ok {
		// all unknown names share one label value
		r.observe("other", OutcomeUnknown)
		r.logger.Debug("unknown command", "command", name)
		return None(), interfaces.NewUnknownCommandError(name)
	}
	if !cmd.accepts(len(args)) {
		r.observe(cmd.Name, OutcomeInvalidArgs)
		r.logger.Debug("invalid arguments", "command", cmd.Name, "args", len(args))
		return None(), interfaces.NewInvalidArgumentsError(cmd.Name, cmd.Usage)
	}

	res, err := cmd.Handler(ctx, args)
	if err != nil {
		r.observe(cmd.Name, OutcomeError)
		r.logger.Error("command failed", "command", cmd.Name, "error", err)
		return None(), err
	}
	r.observe(cmd.Name, OutcomeOK)
	r.logger.Info("command executed", "command", cmd.Name, "args", args)
	return res, nil
}

func (r *Registry) observe(name, outcome string) {
	depth := 0
	if r.db != nil {
		depth = r.db.TransactionDepth()
	}
	r.metrics.Observe(name, outcome, depth)
}

// List returns the registered command names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help describes one command, or every command when name is empty.
func (r *Registry) Help(name string) string {
	if name != "" {
		cmd, ok := r.lookup(name)
		if !ok {
			return "Unknown command: " + name
		}
		return fmt.Sprintf("Usage: %s\n%s", cmd.Usage, cmd.Help)
	}

	var b strings.Builder
	b.WriteString("Available commands:")
	for _, n := range r.List() {
		cmd, _ := r.lookup(n)
		fmt.Fprintf(&b, "\n  %-12s - %s", strings.ToUpper(n), cmd.Help)
	}
	return b.String()
}

// Metrics returns the registry's metrics sink.
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}
