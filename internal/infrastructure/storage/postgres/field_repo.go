package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pnodev/internal/metadata"
	"pnodev/pkg/logger"
)

type fieldRow struct {
	ID             int64  `db:"id"`
	Kind           string `db:"kind"`
	Name           string `db:"name"`
	Type           string `db:"type"`
	MetaKey        string `db:"meta_key"`
	Options        []byte `db:"options"`
	Taxonomy       string `db:"taxonomy"`
	Description    string `db:"description"`
	Placeholder    string `db:"placeholder"`
	Priority       int    `db:"priority"`
	ProfileFieldID int64  `db:"profile_field_id"`
	Generated      bool   `db:"generated"`
}

var fieldColumns = ExtractDBColumns[fieldRow]()

func (r fieldRow) definition() (metadata.FieldDefinition, error) {
	var opts []metadata.Option
	if len(r.Options) > 0 {
		if err := json.Unmarshal(r.Options, &opts); err != nil {
			return metadata.FieldDefinition{}, fmt.Errorf("field %d options: %w", r.ID, err)
		}
	}
	return metadata.FieldDefinition{
		ID:             r.ID,
		Kind:           metadata.FieldKind(r.Kind),
		Name:           r.Name,
		Type:           metadata.FieldType(r.Type),
		MetaKey:        r.MetaKey,
		Options:        opts,
		Taxonomy:       r.Taxonomy,
		Description:    r.Description,
		Placeholder:    r.Placeholder,
		Priority:       r.Priority,
		ProfileFieldID: r.ProfileFieldID,
		Generated:      r.Generated,
	}, nil
}

// ListFields returns fields in display order. Kind, generated and type
// exclusions are pushed to SQL; the CEL expression is applied afterwards.
// Rows the host stored in a shape NewFieldDefinition rejects are dropped.
func (s *Store) ListFields(ctx context.Context, filter metadata.FieldFilter) ([]metadata.FieldDefinition, error) {
	q := s.builder().
		Select(fieldColumns...).
		From(tableFields).
		OrderBy("priority", "id")
	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}
	if filter.OnlyGenerated {
		q = q.Where(squirrel.Eq{"generated": true})
	}
	if len(filter.ExcludeTypes) > 0 {
		types := make([]string, len(filter.ExcludeTypes))
		for i, t := range filter.ExcludeTypes {
			types[i] = string(t)
		}
		q = q.Where(squirrel.NotEq{"type": types})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []fieldRow
	if err := pgxscan.Select(ctx, s.tm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	defs := make([]metadata.FieldDefinition, 0, len(rows))
	for _, row := range rows {
		def, err := row.definition()
		if err == nil {
			def, err = metadata.NewFieldDefinition(def)
		}
		if err != nil {
			logger.Warn(ctx, "skipping invalid field", "field_id", row.ID, "meta_key", row.MetaKey, "error", err)
			continue
		}
		defs = append(defs, def)
	}
	return filter.Apply(defs)
}

// CreateField validates and inserts def, returning the new id.
func (s *Store) CreateField(ctx context.Context, def metadata.FieldDefinition) (int64, error) {
	def, err := metadata.NewFieldDefinition(def)
	if err != nil {
		return 0, err
	}
	opts := def.Options
	if opts == nil {
		opts = []metadata.Option{}
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return 0, fmt.Errorf("encode options: %w", err)
	}

	q := s.builder().
		Insert(tableFields).
		Columns("kind", "name", "type", "meta_key", "options", "taxonomy",
			"description", "placeholder", "priority", "profile_field_id", "generated").
		Values(string(def.Kind), def.Name, string(def.Type), def.MetaKey, optsJSON, def.Taxonomy,
			def.Description, def.Placeholder, def.Priority, def.ProfileFieldID, def.Generated).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", tableFields, err)
	}
	return id, nil
}

// DeleteGeneratedFields removes fields of kind created by earlier runs.
func (s *Store) DeleteGeneratedFields(ctx context.Context, kind metadata.FieldKind) (int, error) {
	sql, args, err := s.builder().
		Delete(tableFields).
		Where(squirrel.Eq{"kind": string(kind), "generated": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete generated fields: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
