// Package connectors holds one subpackage per remote catalog vendor. Each
// connector implements driven.CatalogConnector and yields raw pages; it
// never decodes records.
package connectors
