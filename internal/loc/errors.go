package loc

import "errors"

// Builder and accessor error kinds. Construction errors are returned to
// the immediate caller and never silently defaulted to Unknown: a
// missing location must be explicit, not guessed.
var (
	// ErrMissingRequiredField reports a composite builder invoked
	// without a required child, name, or filename.
	ErrMissingRequiredField = errors.New("loc: missing required field")

	// ErrContextMismatch reports a child handle owned by a different
	// Context than the one being targeted.
	ErrContextMismatch = errors.New("loc: context mismatch")

	// ErrTypeTagMismatch reports a downcast of an opaque location's
	// underlying value with a type different from the tagged one.
	ErrTypeTagMismatch = errors.New("loc: type tag mismatch")

	// ErrBadUnderlying reports an opaque underlying value that cannot
	// participate in interning (nil or of a non-comparable type).
	ErrBadUnderlying = errors.New("loc: bad underlying value")

	// ErrInvalidRange reports malformed location syntax in the textual
	// layer (locparse).
	ErrInvalidRange = errors.New("loc: invalid range")
)
