package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetRun(ctx))
	assert.Empty(t, GetRunID(ctx))

	run := NewRunContext("generate listings", 42)
	ctx = WithRun(ctx, run)

	got := GetRun(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "generate listings", got.Command)
	assert.Equal(t, int64(42), got.Seed)
	assert.Len(t, GetRunID(ctx), 36)
}
