package preferences

import "errors"

var (
	// ErrUnboundStore is returned by any operation invoked before Init.
	ErrUnboundStore = errors.New("preferences: store is not initialized")

	// ErrAlreadyBound is returned by a second Init.
	ErrAlreadyBound = errors.New("preferences: store is already initialized")

	// ErrInvalidArgument is returned for a set holding non-text members.
	ErrInvalidArgument = errors.New("preferences: only sets of strings are supported")

	// ErrUnsupportedType is returned for values outside the six supported kinds.
	ErrUnsupportedType = errors.New("preferences: unsupported type")

	// ErrTypeMismatch is returned when a stored value is read back as another kind.
	ErrTypeMismatch = errors.New("preferences: stored value has a different type")
)
