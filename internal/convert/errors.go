package convert

import (
	"errors"
	"fmt"
	"reflect"
)

// Error represents a failure while adapting a data row to a declared
// parameter list.
//
// Conversion failures fall into four categories:
//   - Nil input: a validation input slice is absent (caller contract violation)
//   - Arity mismatch: argument and parameter counts differ
//   - Type mismatch: a value is incompatible with its declared slot
//   - Insufficient data: the row is shorter than the required slot count
//
// All failures are immediate and non-recoverable at this layer; the
// caller decides whether the test case errors or aborts.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Position is the zero-based argument slot (type mismatches only).
	Position int

	// Expected is the declared type name (type mismatches only).
	Expected string

	// Actual is the dynamic type name of the offending value.
	Actual string

	// Value is the offending value itself.
	Value any
}

// ErrorCode categorizes conversion errors.
type ErrorCode string

const (
	// ErrCodeNilInput indicates a validation input slice was nil.
	ErrCodeNilInput ErrorCode = "NIL_INPUT"

	// ErrCodeArityMismatch indicates argument and parameter counts differ.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeTypeMismatch indicates a value is incompatible with its slot.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeInsufficientData indicates the row has too few values.
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTypeMismatch returns true if the error is a type mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeTypeMismatch
	}
	return false
}

// IsArityMismatch returns true if the error is an arity mismatch.
// Uses errors.As to handle wrapped errors.
func IsArityMismatch(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeArityMismatch
	}
	return false
}

// IsInsufficientData returns true if the error reports a short data row.
// Uses errors.As to handle wrapped errors.
func IsInsufficientData(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInsufficientData
	}
	return false
}

// IsNilInput returns true if the error reports a nil validation input.
// Uses errors.As to handle wrapped errors.
func IsNilInput(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNilInput
	}
	return false
}

// newNilInputError creates an Error for an absent input slice.
func newNilInputError(what string) *Error {
	return &Error{
		Code:    ErrCodeNilInput,
		Message: what + " must not be nil",
	}
}

// newArityError creates an Error naming expected vs actual counts.
func newArityError(expected, actual int) *Error {
	return &Error{
		Code:    ErrCodeArityMismatch,
		Message: fmt.Sprintf("expected %d arguments but got %d", expected, actual),
	}
}

// newInsufficientDataError creates an Error for a short data row.
func newInsufficientDataError(have, need int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientData,
		Message: fmt.Sprintf("row has %d values but the signature requires at least %d", have, need),
	}
}

// newTypeMismatchError creates an Error identifying the slot, the
// declared type, the offending value and its dynamic type.
func newTypeMismatchError(pos int, declared reflect.Type, value any) *Error {
	actual := "<nil>"
	if value != nil {
		actual = reflect.TypeOf(value).String()
	}
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("parameter %d is of type %s but argument given is %v of type %s", pos, declared, value, actual),
		Position: pos,
		Expected: declared.String(),
		Actual:   actual,
		Value:    value,
	}
}
