package datadog

import (
	"encoding/json"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
	"github.com/custodia-labs/catalog-ingest/internal/core/ports/driven"
)

// Annotation keys written on every entity.
const (
	AnnotationManagedByLocation       = "backstage.io/managed-by-location"
	AnnotationManagedByOriginLocation = "backstage.io/managed-by-origin-location"
	AnnotationSourceLocation          = "backstage.io/source-location"
	AnnotationEntityID                = "datadoghq.com/entity-id"
	AnnotationTeam                    = "datadoghq.com/team"
	AnnotationApplication             = "datadoghq.com/application"
)

const (
	// SourceTag is the first tag of every entity.
	SourceTag = "datadog"

	// DefaultSpecType is used when the record has no type.
	DefaultSpecType = "service"

	// DefaultLifecycle is used when the record has no lifecycle.
	DefaultLifecycle = "unknown"

	rawKindSystem = "system"
)

// Ensure Mapper implements the interface.
var _ driven.EntityMapper = (*Mapper)(nil)

// Mapper converts raw catalog records into entities.
type Mapper struct {
	location string
}

// NewMapper creates a mapper that records entityURL as the managed-by
// location of every entity it produces.
func NewMapper(entityURL string) *Mapper {
	return &Mapper{location: "url:" + entityURL}
}

// Map converts one raw record.
// Returns nil, nil when the record has no attributes or no name.
// Returns a *domain.RecordMappingError when the record cannot be decoded.
func (m *Mapper) Map(raw domain.RawRecord) (*domain.Entity, error) {
	var record domain.RawServiceRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &domain.RecordMappingError{RecordID: peekID(raw), Err: err}
	}

	attrs := record.Attributes
	if attrs == nil || attrs.Name == "" {
		return nil, nil
	}

	entity := &domain.Entity{
		APIVersion: domain.EntityAPIVersion,
		Kind:       mapKind(attrs.Kind),
		Metadata: domain.EntityMetadata{
			Name:        NormalizeName(attrs.Name),
			Title:       attrs.Name,
			Description: attrs.Description,
			Annotations: m.annotations(&record),
			Tags:        buildTags(attrs),
			Links:       []domain.EntityLink{},
		},
		Spec: domain.EntitySpec{
			Type:      valueOr(attrs.Type, DefaultSpecType),
			Lifecycle: valueOr(attrs.Lifecycle, DefaultLifecycle),
			Owner:     ResolveOwner(attrs),
		},
		Relations: TranslateRelations(&record),
	}

	if repo := SelectRepository(attrs.Repositories); repo != nil && repo.URL != "" {
		entity.Metadata.Annotations[AnnotationSourceLocation] = "url:" + repo.URL + "/"
		entity.Metadata.Links = append(entity.Metadata.Links, domain.EntityLink{
			URL:   repo.URL,
			Title: "Repository",
			Icon:  "code",
		})
	}

	return entity, nil
}

func (m *Mapper) annotations(record *domain.RawServiceRecord) map[string]string {
	annotations := map[string]string{
		AnnotationManagedByLocation:       m.location,
		AnnotationManagedByOriginLocation: m.location,
		AnnotationEntityID:                record.ID,
	}
	if record.Attributes.Team != "" {
		annotations[AnnotationTeam] = record.Attributes.Team
	}
	if record.Attributes.Application != "" {
		annotations[AnnotationApplication] = record.Attributes.Application
	}
	return annotations
}

func mapKind(kind string) domain.EntityKind {
	if kind == rawKindSystem {
		return domain.KindSystem
	}
	return domain.KindComponent
}

// buildTags returns the source tag, the raw tags verbatim, then the tier tag.
func buildTags(attrs *domain.RawAttributes) []string {
	tags := make([]string, 0, len(attrs.Tags)+2)
	tags = append(tags, SourceTag)
	tags = append(tags, attrs.Tags...)
	if attrs.Tier != "" {
		tags = append(tags, "tier-"+attrs.Tier)
	}
	return tags
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// peekID reads the record id from otherwise undecodable input, if possible.
func peekID(raw domain.RawRecord) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID
}
