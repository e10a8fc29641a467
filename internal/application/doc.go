// Package application wires configuration, property resolution and the
// introspection HTTP server into a runnable unit.
package application
