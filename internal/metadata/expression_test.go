package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionMatch(t *testing.T) {
	sel := FieldDefinition{
		Kind:    KindListing,
		Type:    TypeSelect,
		MetaKey: "tags",
		Options: []Option{{Key: "a"}, {Key: "b"}, {Key: "c"}},
	}
	term := FieldDefinition{Kind: KindListing, Type: TypeTermChecklist, MetaKey: "regions", Taxonomy: "region"}

	tests := []struct {
		expr string
		def  FieldDefinition
		want bool
	}{
		{`field.type == "select"`, sel, true},
		{`field.type == "select"`, term, false},
		{`field.options > 2`, sel, true},
		{`field.taxonomy == "region" && field.kind == "listing"`, term, true},
		{`field.meta_key.startsWith("ta")`, sel, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := CompileExpression(tt.expr)
			require.NoError(t, err)
			got, err := e.Match(tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileExpressionErrors(t *testing.T) {
	_, err := CompileExpression("   ")
	assert.Error(t, err)

	_, err = CompileExpression(`field.type ==`)
	assert.Error(t, err)
}

func TestExpressionNonBoolResult(t *testing.T) {
	e, err := CompileExpression(`field.type`)
	require.NoError(t, err)
	_, err = e.Match(FieldDefinition{Type: TypeText, MetaKey: "a"})
	assert.Error(t, err)
}

func TestFilterWithExpression(t *testing.T) {
	e, err := CompileExpression(`field.type != "file"`)
	require.NoError(t, err)

	got, err := FieldFilter{Where: e}.Apply([]FieldDefinition{
		{Type: TypeFile, MetaKey: "upload"},
		{Type: TypeNumber, MetaKey: "age"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "age", got[0].MetaKey)
}
