package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Store errors
	ErrCodeEditFailed       ErrorCode = "EDIT_FAILED"
	ErrCodeUnknownKey       ErrorCode = "UNKNOWN_KEY"
	ErrCodeTypeMismatch     ErrorCode = "TYPE_MISMATCH"
	ErrCodeCyclicState      ErrorCode = "CYCLIC_STATE"
	ErrCodeUnsupportedState ErrorCode = "UNSUPPORTED_STATE"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Replay errors
	ErrCodeScriptInvalid ErrorCode = "SCRIPT_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// StoreError represents a structured error with context
type StoreError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *StoreError) WithDetail(key string, value interface{}) *StoreError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *StoreError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new StoreError
func New(code ErrorCode, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a StoreError
func Wrap(err error, code ErrorCode, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific StoreError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	storeErr, ok := err.(*StoreError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if storeErr.Code == code {
		return true
	}
	return Is(storeErr.Cause, code)
}

// GetCode extracts the outermost error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	storeErr, ok := err.(*StoreError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return storeErr.Code
}
