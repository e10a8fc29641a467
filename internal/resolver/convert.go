package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

var errNotBoolean = errors.New(`expected "true" or "false"`)

// Convert turns raw into the Go value for def's type: string, int or bool.
// Integers are base-10 and must fit in 32 bits. Booleans accept only "true"
// and "false" in any letter case. Raw values are never trimmed.
func Convert(def property.Definition, raw string) (any, error) {
	switch def.Type() {
	case property.String:
		return raw, nil
	case property.Integer:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, err
		}
		return int(n), nil
	case property.Boolean:
		switch {
		case strings.EqualFold(raw, "true"):
			return true, nil
		case strings.EqualFold(raw, "false"):
			return false, nil
		}
		return nil, errNotBoolean
	default:
		return nil, fmt.Errorf("unsupported value type %s", def.Type())
	}
}
