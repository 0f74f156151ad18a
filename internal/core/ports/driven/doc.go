// Package driven lists the interfaces core services call out through.
//
// A sync needs a CatalogConnector to page through the remote catalog,
// an EntityMapper to normalise each record and an
// EntityProviderConnection to accept the resulting mutation. Settings
// come from a ConfigStore. TaskScheduler, SyncRunStore and SyncObserver
// are optional; a nil value disables recurring runs, run history or
// metrics respectively.
//
// Implementations live under internal/adapters, internal/connectors and
// internal/normalisers. This package imports domain and nothing else
// from the module.
package driven
