package errors

import (
	"fmt"
	"testing"
)

func TestStoreError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeUnknownKey, "no such key")
	if err.Code != ErrCodeUnknownKey {
		t.Errorf("expected code %s, got %s", ErrCodeUnknownKey, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeEditFailed, "edit failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeEditFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeUnknownKey) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("key", "todos").WithDetail("depth", 2)
	if detailed.Details["key"] != "todos" {
		t.Error("WithDetail should add details")
	}
}

func TestIsLooksThroughNestedCodes(t *testing.T) {
	inner := UnknownKey("nmae", "name")
	outer := EditFailed("app", inner)

	if !Is(outer, ErrCodeUnknownKey) {
		t.Error("Is should find a code carried by the cause")
	}
	if GetCode(outer) != ErrCodeEditFailed {
		t.Errorf("GetCode = %s, want outermost %s", GetCode(outer), ErrCodeEditFailed)
	}
	if GetCode(fmt.Errorf("ctx: %w", inner)) != ErrCodeUnknownKey {
		t.Error("GetCode should unwrap fmt-wrapped errors")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := UnknownKey("nmae", "name")
	if err.Code != ErrCodeUnknownKey {
		t.Errorf("expected code %s, got %s", ErrCodeUnknownKey, err.Code)
	}
	if err.Details["suggestion"] != "name" {
		t.Error("UnknownKey should include suggestion detail")
	}

	err = UnknownKey("zzz", "")
	if _, ok := err.Details["suggestion"]; ok {
		t.Error("UnknownKey without suggestion should not carry one")
	}

	err = TypeMismatch("count", "string", "int")
	if err.Details["stateType"] != "int" {
		t.Error("TypeMismatch should include stateType detail")
	}
}
