package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		skip   bool
		reason string
	}{
		{"unsupported", NewUnsupportedType("file"), true, CodeUnsupportedType},
		{"insufficient", NewInsufficientOptions("tags", 2, 1), true, CodeInsufficientOptions},
		{"taxonomy", NewTaxonomyUnresolved("region"), true, CodeTaxonomyUnresolved},
		{"wrapped skip", fmt.Errorf("dispatch: %w", NewUnsupportedType("x")), true, CodeUnsupportedType},
		{"persistence", NewPersistence("set user meta", errors.New("boom")), false, ""},
		{"plain", errors.New("boom"), false, ""},
		{"nil", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.skip, IsSkip(tt.err))
			assert.Equal(t, tt.reason, SkipReason(tt.err))
		})
	}
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistence("set post meta", cause)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWithDetail(t *testing.T) {
	err := NewNotFound("user", int64(7)).WithDetail("hint", "run generate users")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "run generate users", err.Details["hint"])
	assert.Equal(t, int64(7), err.Details["id"])
}
