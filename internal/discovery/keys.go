package discovery

import (
	"maps"
	"slices"
	"strings"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

// CheckKeys fails with *property.UnknownKeyError when explicit configuration
// names a key outside the catalog, or when a system property carries the
// catalog prefix but no known key. Other system properties are left alone.
func CheckKeys(registry *property.Registry, explicit, system map[string]string) error {
	for _, key := range slices.Sorted(maps.Keys(explicit)) {
		if _, err := registry.Lookup(key); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(system)) {
		key, ok := strings.CutPrefix(name, registry.Prefix())
		if !ok {
			continue
		}
		if _, err := registry.Lookup(key); err != nil {
			return err
		}
	}
	return nil
}
