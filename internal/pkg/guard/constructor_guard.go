// Package guard provides the ConstructorGuard pattern for enforcing that
// structs are created through their designated constructor functions rather
// than as zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the object was not
// constructed properly and no specific validation error was provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes objects created through their constructor
// from zero-value instances. Embed it in a struct and set it with
// NewConstructorGuard inside the constructor; a zero-value struct then fails
// Validate.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the object was created through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
