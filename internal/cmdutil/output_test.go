package cmdutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"url": "a&b"}))
	assert.Equal(t, "{\n  \"url\": \"a&b\"\n}\n", buf.String())
}

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "%d users created", 3)
	assert.Equal(t, "Success: 3 users created\n", buf.String())
}

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "draft=1, publish=2", FormatCounts(map[string]int{"publish": 2, "draft": 1}))
	assert.Equal(t, "", FormatCounts(nil))
}
