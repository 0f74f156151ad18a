package domain

// MutationType selects how the destination catalog applies a batch.
type MutationType string

// MutationFull instructs the destination to treat the batch as the complete
// current truth for the location key, removing anything not present in it.
const MutationFull MutationType = "full"

// DeferredEntity pairs an entity with the provider location that emitted it.
type DeferredEntity struct {
	Entity      Entity
	LocationKey string
}

// Mutation is the unit submitted to the destination catalog connection.
type Mutation struct {
	Type MutationType

	// LocationKey is the provider whose entities a full mutation replaces.
	// It is set even when Entities is empty.
	LocationKey string

	Entities []DeferredEntity
}

// NewFullMutation wraps a batch into a full-replace mutation, tagging every
// entity with locationKey.
func NewFullMutation(locationKey string, entities []Entity) Mutation {
	deferred := make([]DeferredEntity, 0, len(entities))
	for _, e := range entities {
		deferred = append(deferred, DeferredEntity{Entity: e, LocationKey: locationKey})
	}
	return Mutation{Type: MutationFull, LocationKey: locationKey, Entities: deferred}
}
