package domain

import "encoding/json"

// RawRecord is one undecoded item of a remote page's data array.
// It is the connector's output before normalisation.
type RawRecord = json.RawMessage

// RawPage is one page returned by the remote catalog API.
type RawPage struct {
	// Offset is the page offset the page was requested with.
	Offset int

	// Records are the page's data items in server order.
	Records []RawRecord
}

// RawServiceRecord is the decoded shape of a remote catalog record.
// Owned by the mapping step that decoded it and discarded afterwards.
type RawServiceRecord struct {
	// ID is the opaque remote identifier.
	ID string `json:"id"`

	// Type is the remote resource type (e.g. "entity").
	Type string `json:"type"`

	// Attributes holds the descriptive fields. Nil when the API omitted them.
	Attributes *RawAttributes `json:"attributes"`

	// Relationships holds the related-entity block. Optional.
	Relationships *RawRelationships `json:"relationships"`
}

// RawAttributes are the descriptive fields of a remote record.
type RawAttributes struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Kind         string          `json:"kind"`
	Type         string          `json:"type"`
	Tier         string          `json:"tier"`
	Lifecycle    string          `json:"lifecycle"`
	Owner        string          `json:"owner"`
	Team         string          `json:"team"`
	Application  string          `json:"application"`
	Tags         []string        `json:"tags"`
	Contacts     []RawContact    `json:"contacts"`
	Repositories []RawRepository `json:"repositories"`
}

// RawContact is one owner/contact entry of a remote record.
type RawContact struct {
	// Type classifies the contact (e.g. "squad", "team", "email", "slack").
	Type string `json:"type"`

	// Contact is the contact value (team handle, address, channel).
	Contact string `json:"contact"`

	// Name is an optional display name.
	Name string `json:"name,omitempty"`
}

// RawRepository is one source repository entry of a remote record.
type RawRepository struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
}

// RawRelationships is the relationship block of a remote record.
type RawRelationships struct {
	RelatedEntities *RawRelatedEntities `json:"relatedEntities"`
}

// RawRelatedEntities lists the record's related-entity descriptors.
type RawRelatedEntities struct {
	Data []RawRelatedEntity `json:"data"`
}

// RawRelatedEntity is one related-entity descriptor. ID is a composite
// identifier of the form kind:namespace/name:RelationTypeX:kind:namespace/name.
type RawRelatedEntity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
