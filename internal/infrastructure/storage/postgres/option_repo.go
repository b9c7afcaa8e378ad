package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pnodev/internal/core/apperror"
)

// GetOption reads a site option.
func (s *Store) GetOption(ctx context.Context, name string) (string, error) {
	sql, args, err := s.builder().
		Select("value").
		From(tableOptions).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var value string
	if err := pgxscan.Get(ctx, s.tm.GetQuerier(ctx), &value, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return "", apperror.NewNotFound("option", name)
		}
		return "", fmt.Errorf("get option: %w", err)
	}
	return value, nil
}

// SetOption upserts a site option.
func (s *Store) SetOption(ctx context.Context, name, value string) error {
	sql, args, err := s.builder().
		Insert(tableOptions).
		Columns("name", "value").
		Values(name, value).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set option: %w", err)
	}
	return nil
}
