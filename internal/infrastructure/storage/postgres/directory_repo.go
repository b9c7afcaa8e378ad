package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
)

// CreateUser inserts u and returns its id. A zero CreatedAt uses the
// column default.
func (s *Store) CreateUser(ctx context.Context, u directory.User) (int64, error) {
	skip := []string{"id"}
	if u.CreatedAt.IsZero() {
		skip = append(skip, "created_at")
	}
	return s.insertReturningID(ctx, tableUsers, StructToMap(u, skip...))
}

// CreateListing inserts l and returns its id. AuthorID 0 stores NULL.
func (s *Store) CreateListing(ctx context.Context, l directory.Listing) (int64, error) {
	skip := []string{"id"}
	if l.CreatedAt.IsZero() {
		skip = append(skip, "created_at")
	}
	data := StructToMap(l, skip...)
	if l.AuthorID == 0 {
		data["author_id"] = nil
	}
	return s.insertReturningID(ctx, tableListings, data)
}

// FindUser resolves a numeric id, an email or a login.
func (s *Store) FindUser(ctx context.Context, identifier string) (directory.User, error) {
	q := s.builder().
		Select(ExtractDBColumns[directory.User]()...).
		From(tableUsers).
		Limit(1)
	switch id, err := strconv.ParseInt(identifier, 10, 64); {
	case err == nil:
		q = q.Where(squirrel.Eq{"id": id})
	case strings.Contains(identifier, "@"):
		q = q.Where(squirrel.Eq{"email": identifier})
	default:
		q = q.Where(squirrel.Eq{"login": identifier})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return directory.User{}, fmt.Errorf("build query: %w", err)
	}

	var u directory.User
	if err := pgxscan.Get(ctx, s.tm.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return directory.User{}, apperror.NewNotFound("user", identifier)
		}
		return directory.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Store) insertReturningID(ctx context.Context, table string, data map[string]any) (int64, error) {
	sql, args, err := s.builder().
		Insert(table).
		SetMap(data).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}

// ListUserIDs returns user ids in ascending order.
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	return s.listIDs(ctx, tableUsers)
}

// ListListingIDs returns listing ids in ascending order.
func (s *Store) ListListingIDs(ctx context.Context) ([]int64, error) {
	return s.listIDs(ctx, tableListings)
}

func (s *Store) listIDs(ctx context.Context, table string) ([]int64, error) {
	sql, args, err := s.builder().Select("id").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var ids []int64
	if err := pgxscan.Select(ctx, s.tm.GetQuerier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return ids, nil
}

// SetListingStatus updates the status of a listing.
func (s *Store) SetListingStatus(ctx context.Context, id int64, status string) error {
	sql, args, err := s.builder().
		Update(tableListings).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := s.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("listing", id)
	}
	return nil
}
