// Package descriptor writes catalog entities as Backstage-style
// multi-document YAML descriptor files.
package descriptor

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

// Relation types that have a spec field in a descriptor file.
const (
	relationDependsOn    = "dependsOn"
	relationDependencyOf = "dependencyOf"
	relationPartOf       = "partOf"
)

// Descriptor is the on-disk shape of one entity.
type Descriptor struct {
	APIVersion string                `yaml:"apiVersion"`
	Kind       string                `yaml:"kind"`
	Metadata   domain.EntityMetadata `yaml:"metadata"`
	Spec       Spec                  `yaml:"spec"`
}

// Spec is the descriptor spec. Relation fields are derived from the
// entity's relations; other relation types are implied by the catalog.
type Spec struct {
	Type         string   `yaml:"type"`
	Lifecycle    string   `yaml:"lifecycle"`
	Owner        string   `yaml:"owner"`
	System       string   `yaml:"system,omitempty"`
	DependsOn    []string `yaml:"dependsOn,omitempty"`
	DependencyOf []string `yaml:"dependencyOf,omitempty"`
}

// FromEntity converts an entity into its descriptor.
func FromEntity(e domain.Entity) Descriptor {
	d := Descriptor{
		APIVersion: e.APIVersion,
		Kind:       string(e.Kind),
		Metadata:   e.Metadata,
		Spec: Spec{
			Type:      e.Spec.Type,
			Lifecycle: e.Spec.Lifecycle,
			Owner:     e.Spec.Owner,
		},
	}

	for _, r := range e.Relations {
		switch r.Type {
		case relationDependsOn:
			d.Spec.DependsOn = append(d.Spec.DependsOn, r.TargetRef)
		case relationDependencyOf:
			d.Spec.DependencyOf = append(d.Spec.DependencyOf, r.TargetRef)
		case relationPartOf:
			if d.Spec.System == "" && strings.HasPrefix(r.TargetRef, "system:") {
				d.Spec.System = r.TargetRef
			}
		}
	}
	return d
}

// Write encodes entities as a YAML stream, one document per entity.
// It returns the number of documents written.
func Write(w io.Writer, entities []domain.Entity) (int, error) {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	for i, e := range entities {
		if err := enc.Encode(FromEntity(e)); err != nil {
			return i, fmt.Errorf("encoding %s: %w", e.Ref(), err)
		}
	}
	if err := enc.Close(); err != nil {
		return len(entities), fmt.Errorf("flushing descriptors: %w", err)
	}
	return len(entities), nil
}

// Read decodes a YAML descriptor stream.
func Read(r io.Reader) ([]Descriptor, error) {
	dec := yaml.NewDecoder(r)

	var out []Descriptor
	for {
		var d Descriptor
		err := dec.Decode(&d)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding descriptor %d: %w", len(out)+1, err)
		}
		out = append(out, d)
	}
}
