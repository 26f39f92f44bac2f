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

// Package interfaces defines the core contracts shared by memdb packages.
package interfaces

// KeyValueStore provides basic key-value operations.
type KeyValueStore interface {
	// Set assigns value to key in the current transaction scope.
	Set(key, value string)
	// Get returns the effective value of key and whether it was found.
	Get(key string) (string, bool)
	// Unset removes key from the current transaction scope. Unsetting an
	// absent key is a no-op.
	Unset(key string)
}

// SearchableStore provides exact-value lookups across the whole key space.
type SearchableStore interface {
	// Counts returns the number of keys whose effective value equals value.
	Counts(value string) int
	// Find returns the keys whose effective value equals value.
	Find(value string) []string
}

// TransactionalStore provides nested transaction control.
type TransactionalStore interface {
	// Begin opens a new nested transaction.
	Begin()
	// Rollback discards the innermost transaction. It returns false when no
	// transaction is active.
	Rollback() bool
	// Commit merges the innermost transaction into its parent. It returns
	// false when no transaction is active.
	Commit() bool
	// TransactionDepth returns the number of open transactions.
	TransactionDepth() int
}

// Database combines all store operations.
type Database interface {
	KeyValueStore
	SearchableStore
	TransactionalStore
}

// Logger provides structured logging capabilities.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, fields ...interface{})
	// Info logs an info message.
	Info(msg string, fields ...interface{})
	// Warn logs a warning message.
	Warn(msg string, fields ...interface{})
	// Error logs an error message.
	Error(msg string, fields ...interface{})
	// Fatal logs a fatal message and exits.
	Fatal(msg string, fields ...interface{})
}

// PluginConfig is handed to a plugin when it is initialized.
type PluginConfig struct {
	Name    string            `json:"name" yaml:"name"`
	Version string            `json:"version" yaml:"version"`
	Enabled bool              `json:"enabled" yaml:"enabled"`
	Config  map[string]string `json:"config" yaml:"config"`
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
