// Package guard provides a small helper for enforcing constructor usage
// on value objects and aggregates. A zero-value guard fails validation,
// which makes bypassing a constructor detectable at runtime.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no custom error
// is supplied and the guarded object was not created via its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed.
// Embed it as a field and initialize it with NewConstructorGuard inside
// the constructor; the zero value fails Validate.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard returns a guard in the "constructed" state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns notConstructedErr, or ErrDefaultConstructorGuard when
// notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.constructed {
		return nil
	}

	if notConstructedErr != nil {
		return notConstructedErr
	}

	return ErrDefaultConstructorGuard
}
