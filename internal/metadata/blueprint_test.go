package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlueprint = `
version: 1
fields:
  - name: Plan
    type: radio
    meta_key: plan
    options:
      - {key: a, label: Basic}
      - {key: b, label: Pro}
      - {key: c, label: Enterprise}
  - type: checkbox
    meta_key: newsletter
  - type: term-checklist
    taxonomy: region
`

func TestParseBlueprintYAML(t *testing.T) {
	bp, err := ParseBlueprintYAML([]byte(sampleBlueprint))
	require.NoError(t, err)
	require.Len(t, bp.Fields, 3)

	defs, err := bp.Definitions(KindProfile, 101)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "plan", defs[0].MetaKey)
	assert.Equal(t, []string{"a", "b", "c"}, defs[0].OptionKeys())
	assert.Equal(t, 101, defs[0].Priority)
	assert.Equal(t, "Test Checkbox field", defs[1].Name)
	assert.Equal(t, "term_checklist", defs[2].MetaKey)
	assert.Equal(t, 103, defs[2].Priority)
	assert.True(t, defs[2].Generated)
}

func TestParseBlueprintYAMLRejects(t *testing.T) {
	_, err := ParseBlueprintYAML([]byte("version: 2\nfields: [{type: text}]"))
	assert.Error(t, err)

	_, err = ParseBlueprintYAML([]byte("version: 1\nfields: []"))
	assert.Error(t, err)
}

func TestBlueprintDefinitionsValidates(t *testing.T) {
	bp := Blueprint{Version: 1, Fields: []BlueprintField{
		{Type: TypeText, MetaKey: "bio", Options: []Option{{Key: "a"}}},
	}}
	_, err := bp.Definitions(KindListing, 1)
	assert.Error(t, err)
}
