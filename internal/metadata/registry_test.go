package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnodev/internal/core/apperror"
)

func TestNewFieldDefinition(t *testing.T) {
	tests := []struct {
		name    string
		def     FieldDefinition
		wantErr bool
	}{
		{
			name: "text",
			def:  FieldDefinition{Type: TypeText, MetaKey: "bio"},
		},
		{
			name: "select with options",
			def: FieldDefinition{Type: TypeSelect, MetaKey: "tags", Options: []Option{
				{Key: "x", Label: "X"}, {Key: "y", Label: "Y"},
			}},
		},
		{
			name: "select without options is accepted",
			def:  FieldDefinition{Type: TypeSelect, MetaKey: "tags"},
		},
		{
			name: "term field with taxonomy",
			def:  FieldDefinition{Type: TypeTermChecklist, MetaKey: "regions", Taxonomy: "region"},
		},
		{
			name:    "missing meta key",
			def:     FieldDefinition{Type: TypeText, MetaKey: "  "},
			wantErr: true,
		},
		{
			name:    "options on text",
			def:     FieldDefinition{Type: TypeText, MetaKey: "bio", Options: []Option{{Key: "a"}}},
			wantErr: true,
		},
		{
			name:    "duplicate option",
			def:     FieldDefinition{Type: TypeRadio, MetaKey: "plan", Options: []Option{{Key: "a"}, {Key: "a"}}},
			wantErr: true,
		},
		{
			name:    "taxonomy on checkbox",
			def:     FieldDefinition{Type: TypeCheckbox, MetaKey: "newsletter", Taxonomy: "region"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFieldDefinition(tt.def)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeInvalidField, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindProfile, got.Kind)
		})
	}
}

func TestNewFieldDefinitionCopiesOptions(t *testing.T) {
	opts := []Option{{Key: "a"}, {Key: "b"}}
	def, err := NewFieldDefinition(FieldDefinition{Type: TypeRadio, MetaKey: "plan", Options: opts})
	require.NoError(t, err)

	opts[0].Key = "mutated"
	assert.Equal(t, []string{"a", "b"}, def.OptionKeys())
}

func TestRegisteredTypesExcludes(t *testing.T) {
	all := Types()
	got := RegisteredTypes(TypeFile, TypeTermSelect)
	assert.Len(t, got, len(all)-2)
	for _, td := range got {
		assert.NotEqual(t, TypeFile, td.Type)
		assert.NotEqual(t, TypeTermSelect, td.Type)
	}
}

func TestMetaKeyFor(t *testing.T) {
	assert.Equal(t, "term_chain_dropdown", MetaKeyFor(TypeTermChainDropdown))
	assert.Equal(t, "text", MetaKeyFor(TypeText))
}

func TestFieldFilter(t *testing.T) {
	defs := []FieldDefinition{
		{Kind: KindProfile, Type: TypeText, MetaKey: "a", Generated: true},
		{Kind: KindProfile, Type: TypeFile, MetaKey: "b", Generated: true},
		{Kind: KindListing, Type: TypeText, MetaKey: "c"},
	}

	got, err := FieldFilter{Kind: KindProfile, ExcludeTypes: []FieldType{TypeFile}}.Apply(defs)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].MetaKey)

	got, err = FieldFilter{OnlyGenerated: true}.Apply(defs)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
