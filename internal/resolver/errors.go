package resolver

import (
	"errors"
	"fmt"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

// ErrTypeConversion is returned when a raw value cannot be parsed as the
// declared type of its key.
var ErrTypeConversion = errors.New("property type conversion failed")

// TypeConversionError carries the key, the source and the offending raw value.
type TypeConversionError struct {
	Key    string
	Source Source
	// Name is the key as spelled in Source, e.g. the environment variable name.
	Name string
	Raw  string
	Type property.ValueType
	Err  error
}

func (e *TypeConversionError) Error() string {
	msg := fmt.Sprintf("property %q from %s", e.Key, e.Source)
	if e.Name != "" && e.Name != e.Key {
		msg += fmt.Sprintf(" (%s)", e.Name)
	}
	return msg + fmt.Sprintf(": cannot convert %q to %s", e.Raw, e.Type)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

func (e *TypeConversionError) Is(target error) bool {
	return target == ErrTypeConversion
}
