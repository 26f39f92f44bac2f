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

// Package store implements the transaction-layered key-value engine.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// SearchStrategy selects how Counts and Find are answered.
type SearchStrategy string

const (
	// SearchIndex answers lookups from a reverse value index kept in sync
	// on every mutation. Find returns keys in ascending order.
	SearchIndex SearchStrategy = "index"
	// SearchScan resolves every key of every layer on each lookup. Find
	// returns keys in first-seen order, bottom layer first.
	SearchScan SearchStrategy = "scan"
)

// ParseSearchStrategy converts a configuration value into a SearchStrategy.
func ParseSearchStrategy(s string) (SearchStrategy, error) {
	switch SearchStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case SearchIndex, "":
		return SearchIndex, nil
	case SearchScan:
		return SearchScan, nil
	default:
		return "", interfaces.NewInvalidInputError(fmt.Sprintf("unknown search strategy %q", s), "expected index or scan")
	}
}

// Stats is a snapshot of engine activity.
type Stats struct {
	Reads       uint64 `json:"reads"`
	Writes      uint64 `json:"writes"`
	Scans       uint64 `json:"scans"`
	Commits     uint64 `json:"commits"`
	Rollbacks   uint64 `json:"rollbacks"`
	VisibleKeys int    `json:"visible_keys"`
	Depth       int    `json:"depth"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithSearchStrategy sets the lookup strategy. Defaults to SearchIndex.
func WithSearchStrategy(strategy SearchStrategy) Option {
	return func(e *Engine) {
		e.strategy = strategy
	}
}

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine is the in-memory store. It implements interfaces.Database.
type Engine struct {
	mu       sync.Mutex
	stack    *LayerStack
	index    *valueIndex
	strategy SearchStrategy
	logger   interfaces.Logger
	stats    Stats
}

var _ interfaces.Database = (*Engine)(nil)

// NewEngine creates an empty engine at transaction depth 0.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		stack:    NewLayerStack(),
		index:    newValueIndex(),
		strategy: SearchIndex,
		logger:   interfaces.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the configured search strategy.
func (e *Engine) Strategy() SearchStrategy {
	return e.strategy
}

// Set assigns value to key in the innermost scope.
func (e *Engine) Set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stack.Write(key, value)
	e.index.refresh(e.stack, key)
	e.stats.Writes++
	e.logger.Debug("set", "key", key, "value", value, "depth", e.stack.Depth())
}

// Get returns the effective value of key.
func (e *Engine) Get(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Reads++
	value, ok := e.stack.Resolve(key)
	e.logger.Debug("get", "key", key, "found", ok)
	return value, ok
}

// Unset hides key in the innermost scope. Unsetting an absent key is a no-op.
func (e *Engine) Unset(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stack.Delete(key)
	e.index.refresh(e.stack, key)
	e.stats.Writes++
	e.logger.Debug("unset", "key", key, "depth", e.stack.Depth())
}

// Counts returns how many distinct keys currently resolve to value.
func (e *Engine) Counts(value string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Scans++
	if e.strategy == SearchScan {
		return len(e.scan(value))
	}
	return e.index.count(value)
}

// Find returns the keys that currently resolve to value. The result is never nil.
func (e *Engine) Find(value string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Scans++
	if e.strategy == SearchScan {
		return e.scan(value)
	}
	return e.index.find(value)
}

// Begin opens a nested transaction.
func (e *Engine) Begin() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stack.Begin()
	e.logger.Debug("begin", "depth", e.stack.Depth())
}

// Rollback discards the innermost transaction.
func (e *Engine) Rollback() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stack.Depth() == 0 {
		e.logger.Debug("rollback without transaction")
		return false
	}
	touched := e.stack.Top().Keys()
	e.stack.Rollback()
	e.reindex(touched)
	e.stats.Rollbacks++
	e.logger.Debug("rollback", "depth", e.stack.Depth(), "keys", len(touched))
	return true
}

// Commit merges the innermost transaction into its parent.
func (e *Engine) Commit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stack.Depth() == 0 {
		e.logger.Debug("commit without transaction")
		return false
	}
	touched := e.stack.Top().Keys()
	e.stack.Commit()
	e.reindex(touched)
	e.stats.Commits++
	e.logger.Debug("commit", "depth", e.stack.Depth(), "keys", len(touched))
	return true
}

// TransactionDepth returns the number of open transactions.
func (e *Engine) TransactionDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.Depth()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.stats
	s.VisibleKeys = e.index.visible()
	s.Depth = e.stack.Depth()
	return s
}

func (e *Engine) reindex(keys []string) {
	for _, key := range keys {
		e.index.refresh(e.stack, key)
	}
}

// scan walks the union of keys in every layer, bottom to top, resolving each
// key once.
func (e *Engine) scan(value string) []string {
	seen := linkedhashset.New()
	for _, layer := range e.stack.Layers() {
		for _, key := range layer.Keys() {
			seen.Add(key)
		}
	}
	matches := []string{}
	for _, k := range seen.Values() {
		key := k.(string)
		if v, ok := e.stack.Resolve(key); ok && v == value {
			matches = append(matches, key)
		}
	}
	return matches
}
