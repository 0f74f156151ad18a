package datadog

import (
	"strings"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// UnknownOwner is used when no strategy yields an owner.
const UnknownOwner = "unknown"

// Contact types consulted when no explicit owner is set.
const (
	ContactTypeSquad = "squad"
	ContactTypeTeam  = "team"
)

// ownerStrategy returns an owner candidate and whether it matched.
type ownerStrategy func(attrs *domain.RawAttributes) (string, bool)

// ownerStrategies are tried in order; the first match wins.
var ownerStrategies = []ownerStrategy{
	explicitOwner,
	firstContactOfType(ContactTypeSquad),
	firstContactOfType(ContactTypeTeam),
}

// ResolveOwner returns the record's owner.
func ResolveOwner(attrs *domain.RawAttributes) string {
	if attrs == nil {
		return UnknownOwner
	}
	for _, strategy := range ownerStrategies {
		if owner, ok := strategy(attrs); ok {
			return owner
		}
	}
	return UnknownOwner
}

func explicitOwner(attrs *domain.RawAttributes) (string, bool) {
	owner := strings.TrimSpace(attrs.Owner)
	return owner, owner != ""
}

func firstContactOfType(contactType string) ownerStrategy {
	return func(attrs *domain.RawAttributes) (string, bool) {
		for _, c := range attrs.Contacts {
			if !strings.EqualFold(c.Type, contactType) {
				continue
			}
			if contact := strings.TrimSpace(c.Contact); contact != "" {
				return contact, true
			}
		}
		return "", false
	}
}
