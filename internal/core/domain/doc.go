// Package domain holds the value types shared by every layer of
// catalog-ingest: raw pages and records as fetched from the remote
// catalog, normalised entities and their relations, full-replace
// mutations, provider configuration, sync runs and scheduled tasks.
//
// Nothing here performs I/O and the package imports only the standard
// library, so connectors, normalisers, services and adapters can all
// depend on it without cycles.
package domain
