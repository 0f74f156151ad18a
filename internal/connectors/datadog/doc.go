// Package datadog implements a connector for the Datadog Service Catalog.
//
// The connector walks the catalog entity listing of the v2 API and hands
// every page of raw records to the sync pipeline unchanged. Decoding and
// normalisation happen downstream in the normaliser.
//
// # Architecture
//
// The connector follows the driven port pattern defined in [driven.CatalogConnector].
// It comprises the following components:
//
//   - Connector: walks pagination and manages lifecycle
//   - Client: handles API communication with rate limiting
//   - Config: derives endpoints from the provider configuration
//
// # Authentication
//
// Requests carry the DD-API-KEY and DD-APPLICATION-KEY headers. Keys are
// supplied already validated; this package never acquires or refreshes them.
//
// # Pagination
//
// Each request asks for page[limit] records starting at page[offset]. The
// next offset is always read back from the links.next URL the server returns,
// never computed locally. The walk ends when links.next is absent, is not a
// string, or carries no numeric offset. A response without a data array ends
// the walk with a warning.
//
// # Rate Limiting
//
// A token bucket throttles requests proactively. The X-RateLimit-Remaining and
// X-RateLimit-Reset headers are tracked and requests wait for the reset when
// the remaining budget runs low. Requests are never retried.
//
// # Error Handling
//
//   - Non-2xx responses: [RemoteAPIError], fatal for the run
//   - Undecodable bodies: [MalformedPageError], fatal for the run
//   - Context cancellation: returned as is
//
// # Example Usage
//
//	connector := datadog.New(datadog.NewConfig(providerCfg))
//	pages, errs := connector.Pages(ctx)
//	for page := range pages {
//	    // Map page.Records
//	}
package datadog
