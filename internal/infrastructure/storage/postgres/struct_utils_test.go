package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pnodev/internal/domain/directory"
)

type Stamped struct {
	CreatedAt time.Time `db:"created_at"`
}

type sample struct {
	Stamped
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Hidden string `db:"-"`
	Plain  string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"created_at", "id", "name"}, ExtractDBColumns[sample]())
	assert.Equal(t,
		[]string{"id", "login", "email", "password_hash", "display_name", "created_at"},
		ExtractDBColumns[directory.User]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	m := StructToMap(&sample{Stamped: Stamped{CreatedAt: now}, ID: 7, Name: "n", Hidden: "h"}, "id")

	assert.Equal(t, map[string]any{"created_at": now, "name": "n"}, m)
	assert.Nil(t, StructToMap(42))
}
