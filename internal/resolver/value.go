package resolver

import "github.com/eugenenazirov/kubeprops/internal/property"

// ResolvedValue is the outcome of one resolution. The zero Source means no
// source supplied a value.
type ResolvedValue struct {
	Definition property.Definition
	Source     Source
	// Name is the name the value was found under in Source.
	Name  string
	Raw   string
	value any
}

// Present reports whether any source, including a default, supplied a value.
func (v ResolvedValue) Present() bool {
	return v.Source != SourceNone
}

// Value returns the converted value or nil when absent.
func (v ResolvedValue) Value() any {
	return v.value
}

func (v ResolvedValue) String() (string, bool) {
	s, ok := v.value.(string)
	return s, ok
}

func (v ResolvedValue) Int() (int, bool) {
	n, ok := v.value.(int)
	return n, ok
}

func (v ResolvedValue) Bool() (bool, bool) {
	b, ok := v.value.(bool)
	return b, ok
}
