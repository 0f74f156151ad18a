package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityRef_String(t *testing.T) {
	tests := []struct {
		name string
		ref  EntityRef
		want string
	}{
		{"lowercases kind", EntityRef{Kind: "Service", Namespace: "default", Name: "api"}, "service:default/api"},
		{"lowercases non-ASCII kind", EntityRef{Kind: "SYSTÈME", Namespace: "default", Name: "a"}, "système:default/a"},
		{"keeps namespace and name", EntityRef{Kind: "system", Namespace: "Team-A", Name: "Checkout"}, "system:Team-A/Checkout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.String())
		})
	}
}

func TestEntity_Ref(t *testing.T) {
	e := Entity{Kind: KindComponent, Metadata: EntityMetadata{Name: "payments"}}

	assert.Equal(t, "component:default/payments", e.Ref())
}

func TestNewFullMutation(t *testing.T) {
	entities := []Entity{
		{Kind: KindComponent, Metadata: EntityMetadata{Name: "a"}},
		{Kind: KindSystem, Metadata: EntityMetadata{Name: "b"}},
	}

	m := NewFullMutation("provider-x", entities)

	assert.Equal(t, MutationFull, m.Type)
	assert.Len(t, m.Entities, 2)
	for i, d := range m.Entities {
		assert.Equal(t, "provider-x", d.LocationKey)
		assert.Equal(t, entities[i].Metadata.Name, d.Entity.Metadata.Name)
	}
}

func TestNewFullMutation_Empty(t *testing.T) {
	m := NewFullMutation("provider-x", nil)

	assert.Equal(t, MutationFull, m.Type)
	assert.Equal(t, "provider-x", m.LocationKey)
	assert.NotNil(t, m.Entities)
	assert.Empty(t, m.Entities)
}
