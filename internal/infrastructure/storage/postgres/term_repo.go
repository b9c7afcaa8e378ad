package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
)

// CreateTerm inserts a taxonomy term and returns its id.
func (s *Store) CreateTerm(ctx context.Context, term directory.Term) (int64, error) {
	if term.Slug == "" {
		term.Slug = directory.Slugify(term.Name)
	}
	sql, args, err := s.builder().
		Insert(tableTerms).
		SetMap(StructToMap(term, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", tableTerms, err)
	}
	return id, nil
}

// ListTerms returns the term ids of taxonomy in ascending order.
func (s *Store) ListTerms(ctx context.Context, taxonomy string) ([]int64, error) {
	sql, args, err := s.builder().
		Select("id").
		From(tableTerms).
		Where(squirrel.Eq{"taxonomy": taxonomy}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []int64
	if err := pgxscan.Select(ctx, s.tm.GetQuerier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return ids, nil
}

// Term returns one term.
func (s *Store) Term(ctx context.Context, id int64) (directory.Term, error) {
	sql, args, err := s.builder().
		Select(ExtractDBColumns[directory.Term]()...).
		From(tableTerms).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return directory.Term{}, fmt.Errorf("build query: %w", err)
	}

	var t directory.Term
	if err := pgxscan.Get(ctx, s.tm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return directory.Term{}, apperror.NewNotFound("term", id)
		}
		return directory.Term{}, fmt.Errorf("get term: %w", err)
	}
	return t, nil
}

// SetEntityTerms replaces the listing's terms of taxonomy in one transaction.
func (s *Store) SetEntityTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error {
	return s.tm.RunInTransaction(ctx, func(ctx context.Context) error {
		sql, args, err := s.builder().
			Delete(tableRelationships).
			Where(squirrel.Eq{"object_id": postID}).
			Where("term_id IN (SELECT id FROM "+tableTerms+" WHERE taxonomy = ?)", taxonomy).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := s.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("clear terms: %w", err)
		}

		rows := make([][]any, len(termIDs))
		for i, id := range termIDs {
			rows[i] = []any{postID, id}
		}
		if _, err := s.batch.CopyFromSlice(ctx, tableRelationships, []string{"object_id", "term_id"}, rows); err != nil {
			return fmt.Errorf("attach terms: %w", err)
		}
		return nil
	})
}
