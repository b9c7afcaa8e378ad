package postgres

import (
	"context"
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	migrations, err := Migrations(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, m.Source)
	}
}

func TestMigrationsCreateEveryTable(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/00001_schema.sql")
	require.NoError(t, err)

	src := string(body)
	assert.Regexp(t, `(?m)^-- \+goose Up$`, src)
	assert.Regexp(t, `(?m)^-- \+goose Down$`, src)

	created := regexp.MustCompile(`CREATE TABLE IF NOT EXISTS (\w+)`).FindAllStringSubmatch(src, -1)
	dropped := regexp.MustCompile(`DROP TABLE IF EXISTS (\w+)`).FindAllStringSubmatch(src, -1)

	var tables, drops []string
	for _, m := range created {
		tables = append(tables, m[1])
	}
	for _, m := range dropped {
		drops = append(drops, m[1])
	}
	want := []string{
		tableOptions, tableUsers, tableUserMeta, tableListings,
		tablePostMeta, tableTerms, tableRelationships, tableFields,
	}
	assert.ElementsMatch(t, want, tables)
	assert.ElementsMatch(t, want, drops)
}
