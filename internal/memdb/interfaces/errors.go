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

package interfaces

import (
	"errors"
	"fmt"
)

// MemdbError represents a memdb-specific error with detailed information.
type MemdbError struct {
	Code    string `json:"code"`              // Error code
	Message string `json:"message"`           // Human-readable message
	Details string `json:"details,omitempty"` // Additional details
	Cause   error  `json:"-"`                 // Underlying cause
}

// Error implements the error interface.
func (e *MemdbError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *MemdbError) Unwrap() error {
	return e.Cause
}

// Error code constants for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnknownCommand   = "UNKNOWN_COMMAND"
	ErrCodeInvalidArguments = "INVALID_ARGUMENTS"

	// Configuration errors
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigParseError = "CONFIG_PARSE_ERROR"
	ErrCodeConfigValidation = "CONFIG_VALIDATION"

	// Plugin errors
	ErrCodePluginNotFound  = "PLUGIN_NOT_FOUND"
	ErrCodePluginInitError = "PLUGIN_INIT_ERROR"
	ErrCodePluginExecError = "PLUGIN_EXEC_ERROR"

	// Internal errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewInvalidInputError creates an error for invalid input.
func NewInvalidInputError(message string, details ...string) *MemdbError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &MemdbError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Details: detail,
	}
}

// NewUnknownCommandError creates an error for a command name that is not registered.
func NewUnknownCommandError(name string) *MemdbError {
	return &MemdbError{
		Code:    ErrCodeUnknownCommand,
		Message: "Unknown command: " + name,
	}
}

// NewInvalidArgumentsError creates an error for a command invoked with the wrong arity.
func NewInvalidArgumentsError(name, usage string) *MemdbError {
	return &MemdbError{
		Code:    ErrCodeInvalidArguments,
		Message: fmt.Sprintf("Invalid arguments for command '%s'", name),
		Details: usage,
	}
}

// NewConfigError creates an error for configuration operations.
func NewConfigError(code, message string, cause error) *MemdbError {
	return &MemdbError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewPluginError creates an error for plugin operations.
func NewPluginError(code, message string, cause error) *MemdbError {
	return &MemdbError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an error for internal system errors.
func NewInternalError(message string, cause error) *MemdbError {
	return &MemdbError{
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether any error in err's chain is a MemdbError with the given code.
func IsCode(err error, code string) bool {
	var memdbErr *MemdbError
	if errors.As(err, &memdbErr) {
		return memdbErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, if it is a MemdbError.
func GetErrorCode(err error) string {
	var memdbErr *MemdbError
	if errors.As(err, &memdbErr) {
		return memdbErr.Code
	}
	return ""
}
