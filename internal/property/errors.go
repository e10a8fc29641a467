package property

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key or prefix cannot be used in a catalog.
	ErrInvalidKey = errors.New("invalid property key")
	// ErrUnknownKey is returned when a key is not part of the catalog.
	ErrUnknownKey = errors.New("unknown property key")
)

// InvalidKeyError describes why a definition was rejected.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid property key %q: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// UnknownKeyError is returned by Registry.Lookup for undefined keys.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown property key %q", e.Key)
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}
