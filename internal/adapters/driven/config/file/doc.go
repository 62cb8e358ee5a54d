// Package file provides the TOML-backed configuration store and the typed
// settings view built on it.
package file
