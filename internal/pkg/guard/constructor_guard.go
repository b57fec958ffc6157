// Package guard provides a defensive construction pattern for value objects,
// commands and queries. Embedding a ConstructorGuard in a struct makes zero-value
// instances detectable: only objects built through their designated constructor
// carry a valid guard, so Validate can reject anything created by direct struct
// initialization.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own validation error. Validation must always fail with a
// meaningful message, even without a specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// The zero value is invalid by design.
//
// Example:
//
//	type SubmitScanCommand struct {
//	    rawPayload string
//	    guard      guard.ConstructorGuard
//	}
//
//	func NewSubmitScanCommand(rawPayload string) (SubmitScanCommand, error) {
//	    if rawPayload == "" {
//	        return SubmitScanCommand{}, errors.New("raw payload is required")
//	    }
//	    return SubmitScanCommand{
//	        rawPayload: rawPayload,
//	        guard:      guard.NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (c SubmitScanCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitScanCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as properly
// constructed. Call it only from the object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
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
