package transform

import (
	"testing"

	"github.com/musen-lab/cedar-mcp/pkg/model"
)

func TestInferDatatype(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		field map[string]any
		want  model.Datatype
	}{
		{
			name:  "no properties defaults to string",
			field: map[string]any{},
			want:  model.DatatypeString,
		},
		{
			name:  "empty value properties default to string",
			field: map[string]any{"properties": map[string]any{"@value": map[string]any{}}},
			want:  model.DatatypeString,
		},
		{
			name:  "number maps to decimal",
			field: fieldWithValueType("number"),
			want:  model.DatatypeDecimal,
		},
		{
			name:  "integer maps to integer",
			field: fieldWithValueType("integer"),
			want:  model.DatatypeInteger,
		},
		{
			name:  "boolean maps to boolean",
			field: fieldWithValueType("boolean"),
			want:  model.DatatypeBoolean,
		},
		{
			name:  "unknown hint maps to string",
			field: fieldWithValueType("string"),
			want:  model.DatatypeString,
		},
		{
			name:  "list hint containing number",
			field: fieldWithValueType([]any{"string", "number"}),
			want:  model.DatatypeDecimal,
		},
		{
			name:  "list hint containing integer",
			field: fieldWithValueType([]any{"string", "integer"}),
			want:  model.DatatypeInteger,
		},
		{
			name:  "list hint containing boolean",
			field: fieldWithValueType([]any{"null", "boolean"}),
			want:  model.DatatypeBoolean,
		},
		{
			name:  "list hint without a numeric member",
			field: fieldWithValueType([]any{"string", "null"}),
			want:  model.DatatypeString,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := inferDatatype(tc.field); got != tc.want {
				t.Fatalf("inferDatatype() = %q, want %q", got, tc.want)
			}
		})
	}
}

func fieldWithValueType(hint any) map[string]any {
	return map[string]any{
		"properties": map[string]any{
			"@value": map[string]any{"type": hint},
		},
	}
}
