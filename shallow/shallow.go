// Package shallow implements the one-level equality check used to decide
// whether a consumer's inputs changed between two renders.
//
// Two values are shallowly equal when they are the same reference, or when
// both are maps, structs, slices or arrays (or non-nil pointers to them)
// whose top-level entries are pairwise identical. Identity means pointer
// equality for reference kinds, == for integers, strings and booleans, and
// bit equality for floats (so a NaN is identical to itself); nested values
// are never walked beyond that.
package shallow

import (
	"math"
	"reflect"
)

// Equal reports whether a and b are shallowly equal. Nil and empty maps are
// treated as equal so a nil props map does not force a re-render.
//
// Function values are compared by code pointer. Two closures created by the
// same function literal are equal even when they capture different
// variables, so a component that must see a new callback needs another prop
// that changes with it.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return values(reflect.ValueOf(a), reflect.ValueOf(b))
}

func values(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		if a.Len() == 0 || a.Pointer() == b.Pointer() {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !SameValue(iter.Value(), bv) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !SameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true

	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !SameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return values(a.Elem(), b.Elem())

	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return values(a.Elem(), b.Elem())
	}

	return SameValue(a, b)
}

// SameValue reports whether a and b are the same value by identity: equal
// scalars, or references to the same underlying object. Struct and array
// values have no identity of their own and are compared member by member.
// It never calls Interface, so it is safe on values read through
// unexported fields. Functions are identified by code pointer only.
func SameValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return math.Float64bits(a.Float()) == math.Float64bits(b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		return math.Float64bits(real(ac)) == math.Float64bits(real(bc)) &&
			math.Float64bits(imag(ac)) == math.Float64bits(imag(bc))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Map:
		return a.IsNil() == b.IsNil() && a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.IsNil() == b.IsNil() && a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return SameValue(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !SameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !SameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	}
	return false
}
