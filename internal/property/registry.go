package property

import (
	"strings"
	"unicode"
)

// Registry is the fixed catalog of recognised keys sharing one prefix.
type Registry struct {
	prefix string
	defs   []Definition
	index  map[string]int
}

// NewRegistry builds a catalog from defs, keeping their order. Duplicate keys
// and empty or whitespace-bearing prefixes are rejected.
func NewRegistry(prefix string, defs ...Definition) (*Registry, error) {
	if prefix == "" {
		return nil, &InvalidKeyError{Key: prefix, Reason: "prefix is empty"}
	}
	if strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return nil, &InvalidKeyError{Key: prefix, Reason: "prefix contains whitespace"}
	}

	r := &Registry{
		prefix: prefix,
		defs:   make([]Definition, 0, len(defs)),
		index:  make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		// zero Definitions never went through Define
		if err := validateKey(def.key); err != nil {
			return nil, err
		}
		if _, dup := r.index[def.key]; dup {
			return nil, &InvalidKeyError{Key: def.key, Reason: "key defined more than once"}
		}
		r.index[def.key] = len(r.defs)
		r.defs = append(r.defs, def)
	}
	return r, nil
}

// Prefix returns the prefix shared by system property and environment names.
func (r *Registry) Prefix() string {
	return r.prefix
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, error) {
	i, ok := r.index[key]
	if !ok {
		return Definition{}, &UnknownKeyError{Key: key}
	}
	return r.defs[i], nil
}

// Definitions returns a copy of the catalog in declaration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) Len() int {
	return len(r.defs)
}

func (r *Registry) SystemPropertyName(def Definition) string {
	return SystemPropertyName(r.prefix, def.key)
}

func (r *Registry) EnvironmentVariableName(def Definition) string {
	return EnvironmentVariableName(r.prefix, def.key)
}
