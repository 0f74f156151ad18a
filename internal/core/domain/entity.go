package domain

import "strings"

// EntityAPIVersion is the descriptor format version stamped on every entity.
const EntityAPIVersion = "backstage.io/v1alpha1"

// EntityKind is the destination taxonomy kind of an entity.
type EntityKind string

const (
	// KindSystem is a collection of components exposed as one unit.
	KindSystem EntityKind = "System"

	// KindComponent is a single piece of software (the default kind).
	KindComponent EntityKind = "Component"
)

// Entity is the normalised destination representation of one remote record.
// Created once per raw record during a sync pass and never mutated afterwards.
type Entity struct {
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Kind       EntityKind     `json:"kind" yaml:"kind"`
	Metadata   EntityMetadata `json:"metadata" yaml:"metadata"`
	Spec       EntitySpec     `json:"spec" yaml:"spec"`
	Relations  []Relation     `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// EntityMetadata holds identifying and descriptive fields.
type EntityMetadata struct {
	// Name matches [a-z0-9-]+ and is derived from the remote name.
	Name string `json:"name" yaml:"name"`

	// Title is the remote name as received.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	// Tags keep insertion order; duplicates are allowed.
	Tags  []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Links []EntityLink `json:"links,omitempty" yaml:"links,omitempty"`
}

// EntityLink is an external link shown alongside the entity.
type EntityLink struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// EntitySpec holds the kind-specific fields.
type EntitySpec struct {
	Type      string `json:"type" yaml:"type"`
	Lifecycle string `json:"lifecycle" yaml:"lifecycle"`
	Owner     string `json:"owner" yaml:"owner"`
}

// Relation is a typed edge to another entity.
type Relation struct {
	// Type is a destination relation type (e.g. "dependsOn").
	Type string `json:"type" yaml:"type"`

	// TargetRef is a reference string of the form kind:namespace/name.
	TargetRef string `json:"targetRef" yaml:"targetRef"`
}

// Ref returns the entity's own reference string in the default namespace.
func (e *Entity) Ref() string {
	return EntityRef{Kind: string(e.Kind), Namespace: DefaultNamespace, Name: e.Metadata.Name}.String()
}

// DefaultNamespace is the namespace used when none is given.
const DefaultNamespace = "default"

// EntityRef identifies an entity by kind, namespace and name.
type EntityRef struct {
	Kind      string
	Namespace string
	Name      string
}

// String renders the reference as kind:namespace/name with the kind lowercased.
func (r EntityRef) String() string {
	return strings.ToLower(r.Kind) + ":" + r.Namespace + "/" + r.Name
}
