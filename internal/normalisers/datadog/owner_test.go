package datadog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/catalog-ingest/internal/core/domain"
)

func TestResolveOwner(t *testing.T) {
	tests := []struct {
		name  string
		attrs *domain.RawAttributes
		want  string
	}{
		{
			name:  "nil attributes",
			attrs: nil,
			want:  "unknown",
		},
		{
			name: "explicit owner wins",
			attrs: &domain.RawAttributes{
				Owner:    "platform",
				Contacts: []domain.RawContact{{Type: "squad", Contact: "team-x"}},
			},
			want: "platform",
		},
		{
			name: "first squad contact",
			attrs: &domain.RawAttributes{
				Contacts: []domain.RawContact{
					{Type: "email", Contact: "a@example.com"},
					{Type: "team", Contact: "team-y"},
					{Type: "squad", Contact: "team-x"},
					{Type: "squad", Contact: "team-z"},
				},
			},
			want: "team-x",
		},
		{
			name: "team contact when no squad",
			attrs: &domain.RawAttributes{
				Contacts: []domain.RawContact{
					{Type: "slack", Contact: "#ops"},
					{Type: "Team", Contact: "team-y"},
				},
			},
			want: "team-y",
		},
		{
			name: "fallback",
			attrs: &domain.RawAttributes{
				Contacts: []domain.RawContact{{Type: "email", Contact: "a@example.com"}},
			},
			want: "unknown",
		},
		{
			name:  "blank explicit owner falls through",
			attrs: &domain.RawAttributes{Owner: "  "},
			want:  "unknown",
		},
		{
			name: "contacts are trimmed like the explicit owner",
			attrs: &domain.RawAttributes{
				Contacts: []domain.RawContact{
					{Type: "squad", Contact: "   "},
					{Type: "squad", Contact: " team-x "},
				},
			},
			want: "team-x",
		},
		{
			name:  "explicit owner is trimmed",
			attrs: &domain.RawAttributes{Owner: " platform\t"},
			want:  "platform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOwner(tt.attrs))
		})
	}
}
