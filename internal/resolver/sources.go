package resolver

import "strings"

// Lookuper is a read-only view of one property source.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Map is a Lookuper over an in-memory map. It backs both the explicit
// configuration and system properties.
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Environ is a snapshot of "NAME=value" entries.
type Environ map[string]string

// NewEnviron parses entries as returned by os.Environ. Entries without '=' are
// skipped and later duplicates override earlier ones.
func NewEnviron(entries []string) Environ {
	env := make(Environ, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}

func (e Environ) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Sources groups the three candidate sources in precedence order. Nil members
// behave as empty sources.
type Sources struct {
	Explicit    Lookuper
	System      Lookuper
	Environment Lookuper
}

// Source tags where a resolved value came from.
type Source int

const (
	SourceNone Source = iota
	SourceExplicit
	SourceSystemProperty
	SourceEnvironment
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceSystemProperty:
		return "system-property"
	case SourceEnvironment:
		return "environment"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
