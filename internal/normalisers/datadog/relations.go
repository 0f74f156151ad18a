package datadog

import (
	"strings"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// relationTypeMarker prefixes the relation type segment of a composite id.
const relationTypeMarker = "RelationType"

// RelationType is a relation name in the remote vocabulary, without the marker.
type RelationType string

// Remote relation types.
const (
	RelationDependsOn    RelationType = "DependsOn"
	RelationDependencyOf RelationType = "DependencyOf"
	RelationOwnedBy      RelationType = "OwnedBy"
	RelationOwnerOf      RelationType = "OwnerOf"
	RelationPartsOf      RelationType = "PartsOf"
	RelationHasPart      RelationType = "HasPart"
)

// relationVocabulary maps remote relation types onto destination relation
// types. It is a bijection over the six types.
var relationVocabulary = map[RelationType]string{
	RelationDependsOn:    "dependsOn",
	RelationDependencyOf: "dependencyOf",
	RelationOwnedBy:      "ownedBy",
	RelationOwnerOf:      "ownerOf",
	RelationPartsOf:      "partOf",
	RelationHasPart:      "hasPart",
}

// DestinationRelation returns the destination name for a remote relation type.
func DestinationRelation(t RelationType) (string, bool) {
	dest, ok := relationVocabulary[t]
	return dest, ok
}

// RelationshipReference is the parsed form of a composite relationship id
// such as "frontend:default/app:RelationTypeDependsOn:service:default/api".
type RelationshipReference struct {
	// Source is the entity the relationship starts from. Best effort; it is
	// zero when the id carries fewer than three source fields.
	Source domain.EntityRef

	// Type is the remote relation type.
	Type RelationType

	// Target is the entity the relationship points at.
	Target domain.EntityRef
}

// Relation converts the reference into a destination relation.
// Returns false when the relation type is not in the vocabulary.
func (r RelationshipReference) Relation() (domain.Relation, bool) {
	dest, ok := DestinationRelation(r.Type)
	if !ok {
		return domain.Relation{}, false
	}
	return domain.Relation{Type: dest, TargetRef: r.Target.String()}, true
}

// ParseRelationshipID parses a composite relationship id.
//
// The id is split on ':'. The first segment beginning with "RelationType"
// holds the relation type. The remainder is read as kind, namespace and
// name, where namespace and name may be joined by '/' or by ':'.
// Returns false when there is no marker or fewer than three target fields.
func ParseRelationshipID(id string) (RelationshipReference, bool) {
	segments := strings.Split(id, ":")

	marker := -1
	for i, seg := range segments {
		if strings.HasPrefix(seg, relationTypeMarker) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return RelationshipReference{}, false
	}

	target, ok := parseRefFields(segments[marker+1:])
	if !ok {
		return RelationshipReference{}, false
	}

	ref := RelationshipReference{
		Type:   RelationType(strings.TrimPrefix(segments[marker], relationTypeMarker)),
		Target: target,
	}
	if source, ok := parseRefFields(segments[:marker]); ok {
		ref.Source = source
	}
	return ref, true
}

// parseRefFields reads the first three kind/namespace/name fields from
// colon-separated segments, splitting each further on '/'.
func parseRefFields(segments []string) (domain.EntityRef, bool) {
	fields := make([]string, 0, 3)
	for _, seg := range segments {
		fields = append(fields, strings.Split(seg, "/")...)
		if len(fields) >= 3 {
			break
		}
	}
	if len(fields) < 3 {
		return domain.EntityRef{}, false
	}
	return domain.EntityRef{Kind: fields[0], Namespace: fields[1], Name: fields[2]}, true
}

// TranslateRelations converts a record's related entities into destination
// relations. Ids without a marker, with an unknown relation type or with
// too few target fields are skipped. Order is preserved and duplicates are
// kept.
func TranslateRelations(record *domain.RawServiceRecord) []domain.Relation {
	if record == nil || record.Relationships == nil || record.Relationships.RelatedEntities == nil {
		return []domain.Relation{}
	}

	related := record.Relationships.RelatedEntities.Data
	relations := make([]domain.Relation, 0, len(related))
	for _, entity := range related {
		ref, ok := ParseRelationshipID(entity.ID)
		if !ok {
			continue
		}
		relation, ok := ref.Relation()
		if !ok {
			continue
		}
		relations = append(relations, relation)
	}
	return relations
}
