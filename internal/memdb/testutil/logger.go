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

// Package testutil holds helpers shared by memdb tests.
package testutil

import (
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []interface{}
}

// MockLogger is a mock implementation of interfaces.Logger for testing.
// Every call is passed to the embedded mock as (msg, fields) and also
// recorded in Logs.
type MockLogger struct {
	mock.Mock
	mu   sync.Mutex
	Logs []LogEntry
}

// NewMockLogger creates a mock logger that accepts any call. Tests add
// their own expectations with On and check calls with AssertCalled.
func NewMockLogger() *MockLogger {
	m := &MockLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error", "Fatal"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	return m
}

func (m *MockLogger) log(method, msg string, fields []interface{}) {
	m.mu.Lock()
	m.Logs = append(m.Logs, LogEntry{Level: strings.ToLower(method), Message: msg, Fields: fields})
	m.mu.Unlock()
	m.MethodCalled(method, msg, fields)
}

// Debug mocks the Debug method.
func (m *MockLogger) Debug(msg string, fields ...interface{}) { m.log("Debug", msg, fields) }

// Info mocks the Info method.
func (m *MockLogger) Info(msg string, fields ...interface{}) { m.log("Info", msg, fields) }

// Warn mocks the Warn method.
func (m *MockLogger) Warn(msg string, fields ...interface{}) { m.log("Warn", msg, fields) }

// Error mocks the Error method.
func (m *MockLogger) Error(msg string, fields ...interface{}) { m.log("Error", msg, fields) }

// Fatal mocks the Fatal method.
func (m *MockLogger) Fatal(msg string, fields ...interface{}) { m.log("Fatal", msg, fields) }

// Entries returns the captured entries at level ("debug", "info", ...).
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry at level has a message containing substr.
func (m *MockLogger) Contains(level, substr string) bool {
	for _, e := range m.Entries(level) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
