package property

import "fmt"

// ValueType selects the conversion applied to a raw string value.
type ValueType int

const (
	String ValueType = iota
	Integer
	Boolean
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// MarshalText renders the type name, used by the YAML and JSON outputs.
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown value type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t ValueType) valid() bool {
	return t >= String && t <= Boolean
}

// Definition is an immutable description of one configuration key.
type Definition struct {
	key         string
	valueType   ValueType
	multiValued bool
}

// Define validates key and returns its definition. Keys are restricted to
// lowercase letters, digits and dashes.
func Define(key string, valueType ValueType, multiValued bool) (Definition, error) {
	if err := validateKey(key); err != nil {
		return Definition{}, err
	}
	if !valueType.valid() {
		return Definition{}, &InvalidKeyError{Key: key, Reason: fmt.Sprintf("unsupported value type %d", int(valueType))}
	}
	return Definition{key: key, valueType: valueType, multiValued: multiValued}, nil
}

// MustDefine is like Define but panics on error. Intended for static catalogs.
func MustDefine(key string, valueType ValueType, multiValued bool) Definition {
	def, err := Define(key, valueType, multiValued)
	if err != nil {
		panic(err)
	}
	return def
}

// Key returns the canonical dashed lowercase key.
func (d Definition) Key() string { return d.key }

func (d Definition) Type() ValueType { return d.valueType }

// MultiValued reports whether the key may resolve to zero or more values.
// Resolution is single-valued today; the flag is carried for callers.
func (d Definition) MultiValued() bool { return d.multiValued }

func (d Definition) String() string { return d.key + " (" + d.valueType.String() + ")" }

func validateKey(key string) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key is empty"}
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return &InvalidKeyError{Key: key, Reason: fmt.Sprintf("character %q at offset %d is outside [a-z0-9-]", r, i)}
		}
	}
	return nil
}
