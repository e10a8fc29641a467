// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > YAML config > Defaults. It also collects the three sources the
// discovery properties are resolved from: the YAML "kubernetes" section,
// -D system properties and a snapshot of the environment.
package config
