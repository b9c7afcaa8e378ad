package postgres

import (
	"github.com/Masterminds/squirrel"
)

// Table names.
const (
	tableOptions       = "pno_options"
	tableUsers         = "pno_users"
	tableUserMeta      = "pno_user_meta"
	tableListings      = "pno_listings"
	tablePostMeta      = "pno_post_meta"
	tableTerms         = "pno_terms"
	tableRelationships = "pno_term_relationships"
	tableFields        = "pno_fields"
)

// Store implements the seeding collaborators on PostgreSQL.
type Store struct {
	tm    *TxManager
	batch *BatchInserter
}

// NewStore creates a store. Queries join the transaction in ctx, if any.
func NewStore(tm *TxManager) *Store {
	return &Store{tm: tm, batch: NewBatchInserter(tm)}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (s *Store) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
