// Package resolver computes the effective value of a property from explicit
// configuration, system properties and environment variables, in that order,
// falling back to an optional default.
package resolver

import (
	"fmt"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

// Resolver is stateless; it only holds read-only references to the catalog and
// the sources, so one instance may be used from many goroutines.
type Resolver struct {
	registry *property.Registry
	sources  Sources
}

// Option configures a single Resolve call.
type Option func(*resolveOptions)

type resolveOptions struct {
	defaultFn func() (string, bool, error)
}

// WithDefault supplies the raw value used when no source has one.
func WithDefault(raw string) Option {
	return func(o *resolveOptions) {
		o.defaultFn = func() (string, bool, error) {
			return raw, true, nil
		}
	}
}

// WithDefaultFunc supplies a default computed only when every source is
// empty. fn reports false when it has no default to offer.
func WithDefaultFunc(fn func() (string, bool, error)) Option {
	return func(o *resolveOptions) {
		o.defaultFn = fn
	}
}

// New returns a Resolver reading from sources. Names are derived from the
// registry prefix.
func New(registry *property.Registry, sources Sources) *Resolver {
	return &Resolver{registry: registry, sources: sources}
}

// Registry returns the catalog the resolver derives names from.
func (r *Resolver) Registry() *property.Registry {
	return r.registry
}

// Resolve returns the value of def from the first source that has a
// non-empty value. Absence of every source and default is not an error.
func (r *Resolver) Resolve(def property.Definition, opts ...Option) (ResolvedValue, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	candidates := [...]struct {
		source Source
		src    Lookuper
		name   string
	}{
		{SourceExplicit, r.sources.Explicit, def.Key()},
		{SourceSystemProperty, r.sources.System, r.registry.SystemPropertyName(def)},
		{SourceEnvironment, r.sources.Environment, r.registry.EnvironmentVariableName(def)},
	}
	for _, c := range candidates {
		if c.src == nil {
			continue
		}
		raw, ok := c.src.Lookup(c.name)
		if !ok || raw == "" {
			continue
		}
		return convert(def, c.source, c.name, raw)
	}

	if o.defaultFn != nil {
		raw, ok, err := o.defaultFn()
		if err != nil {
			return ResolvedValue{}, fmt.Errorf("default for %q: %w", def.Key(), err)
		}
		if ok {
			return convert(def, SourceDefault, "", raw)
		}
	}

	return ResolvedValue{Definition: def}, nil
}

// ResolveKey looks key up in the catalog and resolves it.
func (r *Resolver) ResolveKey(key string, opts ...Option) (ResolvedValue, error) {
	def, err := r.registry.Lookup(key)
	if err != nil {
		return ResolvedValue{}, err
	}
	return r.Resolve(def, opts...)
}

// ResolveAll resolves every catalog entry, without defaults, in catalog order.
// The first conversion failure aborts.
func (r *Resolver) ResolveAll() ([]ResolvedValue, error) {
	defs := r.registry.Definitions()
	out := make([]ResolvedValue, 0, len(defs))
	for _, def := range defs {
		v, err := r.Resolve(def)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func convert(def property.Definition, source Source, name, raw string) (ResolvedValue, error) {
	value, err := Convert(def, raw)
	if err != nil {
		return ResolvedValue{}, &TypeConversionError{
			Key:    def.Key(),
			Source: source,
			Name:   name,
			Raw:    raw,
			Type:   def.Type(),
			Err:    err,
		}
	}
	return ResolvedValue{
		Definition: def,
		Source:     source,
		Name:       name,
		Raw:        raw,
		value:      value,
	}, nil
}
