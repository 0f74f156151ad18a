// Package file provides the TOML configuration store and its file watcher.
package file
