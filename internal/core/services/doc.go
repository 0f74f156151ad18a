// Package services wires connectors, mappers and stores into the
// operations the CLI exposes: a CatalogSync per provider, the cron
// Scheduler that repeats it and the loading of provider settings from
// config and environment.
package services
