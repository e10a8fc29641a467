// Package property declares configuration keys: their value type, whether they
// may hold several values, and the names under which each key is looked up in
// system properties and environment variables. A Registry is built once at
// start and is read-only afterwards, so it can be shared between goroutines
// without locking.
package property
