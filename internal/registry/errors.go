package registry

import "errors"

// Registry errors.
var (
	// ErrNilCalculator is returned when registering a nil calculator.
	ErrNilCalculator = errors.New("calculator cannot be nil")

	// ErrEmptyID is returned when a calculator has no identifier.
	ErrEmptyID = errors.New("calculator id cannot be empty")

	// ErrCalculatorNotFound is returned when an identifier is not registered.
	ErrCalculatorNotFound = errors.New("calculator not found")

	// ErrCalculatorPanic wraps a panic recovered from a calculator.
	ErrCalculatorPanic = errors.New("calculator panicked")

	// ErrSystemMismatch is returned when a reading names a different system
	// than the calculator that produced it.
	ErrSystemMismatch = errors.New("reading system does not match calculator")
)
