// Package datadog converts Datadog service catalog records into catalog entities.
//
// The Mapper decodes one raw record, derives a name that matches [a-z0-9-]+,
// resolves an owner through an ordered fallback chain, builds tags,
// annotations and repository links, and attaches the record's relationships
// translated into the destination relation vocabulary.
package datadog
