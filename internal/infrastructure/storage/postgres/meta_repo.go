package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"pnodev/internal/seed"
)

// SetUserMeta upserts a user meta value as JSON.
func (s *Store) SetUserMeta(ctx context.Context, userID int64, key string, value seed.Value) error {
	return s.upsertMeta(ctx, tableUserMeta, "user_id", userID, key, value)
}

// SetPostMeta upserts a listing meta value as JSON.
func (s *Store) SetPostMeta(ctx context.Context, postID int64, key string, value seed.Value) error {
	return s.upsertMeta(ctx, tablePostMeta, "post_id", postID, key, value)
}

func (s *Store) upsertMeta(ctx context.Context, table, owner string, id int64, key string, value seed.Value) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	sql, args, err := s.builder().
		Insert(table).
		Columns(owner, "meta_key", "meta_value").
		Values(id, key, raw).
		Suffix("ON CONFLICT (" + owner + ", meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}
