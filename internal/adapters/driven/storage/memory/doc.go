// Package memory provides in-memory implementations of the storage ports,
// used for dry runs and tests.
package memory
