package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/kubeprops/internal/discovery"
	"github.com/eugenenazirov/kubeprops/internal/property"
	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

type keyEntry struct {
	Key                 string `yaml:"key"`
	Type                string `yaml:"type"`
	MultiValued         bool   `yaml:"multi_valued"`
	SystemProperty      string `yaml:"system_property"`
	EnvironmentVariable string `yaml:"environment_variable"`
}

type valueEntry struct {
	Key    string `yaml:"key"`
	Value  any    `yaml:"value"`
	Source string `yaml:"source"`
	Name   string `yaml:"name,omitempty"`
}

type settingsDump struct {
	Mode       string       `yaml:"mode"`
	Properties []valueEntry `yaml:"properties"`
}

func writeKeys(w io.Writer, registry *property.Registry) error {
	defs := registry.Definitions()
	entries := make([]keyEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, keyEntry{
			Key:                 def.Key(),
			Type:                def.Type().String(),
			MultiValued:         def.MultiValued(),
			SystemProperty:      registry.SystemPropertyName(def),
			EnvironmentVariable: registry.EnvironmentVariableName(def),
		})
	}
	return encodeYAML(w, entries)
}

func writeValues(w io.Writer, values []resolver.ResolvedValue) error {
	entries := make([]valueEntry, 0, len(values))
	for _, v := range values {
		entries = append(entries, newValueEntry(v))
	}
	return encodeYAML(w, entries)
}

func writeSettings(w io.Writer, registry *property.Registry, settings discovery.Settings) error {
	out := settingsDump{Mode: string(settings.Mode())}
	for _, def := range registry.Definitions() {
		out.Properties = append(out.Properties, newValueEntry(settings.Values[def.Key()]))
	}
	return encodeYAML(w, out)
}

func newValueEntry(v resolver.ResolvedValue) valueEntry {
	entry := valueEntry{
		Key:    v.Definition.Key(),
		Value:  v.Value(),
		Source: v.Source.String(),
		Name:   v.Name,
	}
	if v.Present() && discovery.IsSecret(entry.Key) {
		entry.Value = "<redacted>"
	}
	return entry
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
