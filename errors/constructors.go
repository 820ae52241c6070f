package errors

import (
	"fmt"
)

// EditFailed wraps an error returned by an edit function passed to Update or UpdateAt.
func EditFailed(storeName string, err error) *StoreError {
	return Wrap(err, ErrCodeEditFailed, "edit function failed, state left unchanged").
		WithDetail("store", storeName)
}

// UnknownKey reports an UpdateAt key that names no field of the state.
// suggestion may be empty.
func UnknownKey(key, suggestion string) *StoreError {
	msg := fmt.Sprintf("state has no key '%s'", key)
	if suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean '%s'?)", msg, suggestion)
	}
	e := New(ErrCodeUnknownKey, msg).WithDetail("key", key)
	if suggestion != "" {
		e = e.WithDetail("suggestion", suggestion)
	}
	return e
}

// TypeMismatch reports a draft type that does not match the value stored under key.
func TypeMismatch(key, want, got string) *StoreError {
	return New(ErrCodeTypeMismatch,
		fmt.Sprintf("key '%s' holds %s, edit function expects %s", key, got, want)).
		WithDetail("key", key).
		WithDetail("stateType", got).
		WithDetail("draftType", want)
}

// CyclicState reports a snapshot containing a pointer cycle, which drafts cannot represent.
func CyclicState(typeName string) *StoreError {
	return New(ErrCodeCyclicState, fmt.Sprintf("state contains a reference cycle through %s", typeName)).
		WithDetail("type", typeName)
}

// UnsupportedState reports a state shape the operation cannot address.
func UnsupportedState(typeName, reason string) *StoreError {
	return New(ErrCodeUnsupportedState, fmt.Sprintf("unsupported state type %s: %s", typeName, reason)).
		WithDetail("type", typeName)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *StoreError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *StoreError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ScriptInvalid creates an invalid replay script error
func ScriptInvalid(path, reason string) *StoreError {
	return New(ErrCodeScriptInvalid, fmt.Sprintf("invalid replay script: %s", reason)).
		WithDetail("path", path)
}
