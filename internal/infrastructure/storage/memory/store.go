// Package memory is an in-process store used by --dry-run and by tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

// Op names a recorded write.
type Op string

const (
	OpUserMeta    Op = "user_meta"
	OpPostMeta    Op = "post_meta"
	OpEntityTerms Op = "entity_terms"
)

// Write is one journal entry.
type Write struct {
	Op       Op
	EntityID int64
	Key      string // meta key, or taxonomy for OpEntityTerms
	Value    seed.Value
}

// Store keeps everything in maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	nextID   int64
	fields   []metadata.FieldDefinition
	terms    map[int64]directory.Term
	users    map[int64]directory.User
	listings map[int64]directory.Listing
	userMeta map[int64]map[string]seed.Value
	postMeta map[int64]map[string]seed.Value
	postTerm map[int64]map[string][]int64
	options  map[string]string
	journal  []Write
}

// New creates an empty store.
func New() *Store {
	return &Store{
		terms:    make(map[int64]directory.Term),
		users:    make(map[int64]directory.User),
		listings: make(map[int64]directory.Listing),
		userMeta: make(map[int64]map[string]seed.Value),
		postMeta: make(map[int64]map[string]seed.Value),
		postTerm: make(map[int64]map[string][]int64),
		options:  make(map[string]string),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- fields ---

// ListFields returns matching fields ordered by priority, then id.
func (s *Store) ListFields(_ context.Context, filter metadata.FieldFilter) ([]metadata.FieldDefinition, error) {
	s.mu.Lock()
	defs := append([]metadata.FieldDefinition(nil), s.fields...)
	s.mu.Unlock()

	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Priority != defs[j].Priority {
			return defs[i].Priority < defs[j].Priority
		}
		return defs[i].ID < defs[j].ID
	})
	return filter.Apply(defs)
}

// CreateField stores def and returns its new id.
func (s *Store) CreateField(_ context.Context, def metadata.FieldDefinition) (int64, error) {
	def, err := metadata.NewFieldDefinition(def)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	def.ID = s.id()
	s.fields = append(s.fields, def)
	return def.ID, nil
}

// DeleteGeneratedFields removes generated fields of kind.
func (s *Store) DeleteGeneratedFields(_ context.Context, kind metadata.FieldKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.fields[:0]
	removed := 0
	for _, f := range s.fields {
		if f.Generated && f.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.fields = kept
	return removed, nil
}

// --- taxonomy ---

// CreateTerm stores a term and returns its id.
func (s *Store) CreateTerm(_ context.Context, term directory.Term) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if term.ParentID != 0 {
		if _, ok := s.terms[term.ParentID]; !ok {
			return 0, apperror.NewNotFound("term", term.ParentID)
		}
	}
	term.ID = s.id()
	if term.Slug == "" {
		term.Slug = directory.Slugify(term.Name)
	}
	s.terms[term.ID] = term
	return term.ID, nil
}

// ListTerms returns term ids of taxonomy in ascending order.
func (s *Store) ListTerms(_ context.Context, taxonomy string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0)
	for id, t := range s.terms {
		if t.Taxonomy == taxonomy {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Term returns one term.
func (s *Store) Term(_ context.Context, id int64) (directory.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.terms[id]
	if !ok {
		return directory.Term{}, apperror.NewNotFound("term", id)
	}
	return t, nil
}

// --- users and listings ---

// CreateUser stores u and returns its id.
func (s *Store) CreateUser(_ context.Context, u directory.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Login == u.Login {
			return 0, apperror.NewInvalidInput("login already taken: " + u.Login)
		}
	}
	u.ID = s.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = u
	return u.ID, nil
}

// ListUserIDs returns user ids in ascending order.
func (s *Store) ListUserIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.users), nil
}

// User returns one user.
func (s *Store) User(_ context.Context, id int64) (directory.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return directory.User{}, apperror.NewNotFound("user", id)
	}
	return u, nil
}

// FindUser resolves a numeric id, an email or a login.
func (s *Store) FindUser(_ context.Context, identifier string) (directory.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		if u, ok := s.users[id]; ok {
			return u, nil
		}
		return directory.User{}, apperror.NewNotFound("user", identifier)
	}
	for _, u := range s.users {
		if u.Login == identifier || (strings.Contains(identifier, "@") && u.Email == identifier) {
			return u, nil
		}
	}
	return directory.User{}, apperror.NewNotFound("user", identifier)
}

// CreateListing stores l and returns its id.
func (s *Store) CreateListing(_ context.Context, l directory.Listing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.AuthorID != 0 {
		if _, ok := s.users[l.AuthorID]; !ok {
			return 0, apperror.NewNotFound("user", l.AuthorID)
		}
	}
	l.ID = s.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.listings[l.ID] = l
	return l.ID, nil
}

// ListListingIDs returns listing ids in ascending order.
func (s *Store) ListListingIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.listings), nil
}

// Listing returns one listing.
func (s *Store) Listing(_ context.Context, id int64) (directory.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return directory.Listing{}, apperror.NewNotFound("listing", id)
	}
	return l, nil
}

// SetListingStatus updates the status of a listing.
func (s *Store) SetListingStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return apperror.NewNotFound("listing", id)
	}
	l.Status = status
	s.listings[id] = l
	return nil
}

// --- meta ---

// SetUserMeta upserts a user meta value.
func (s *Store) SetUserMeta(_ context.Context, userID int64, key string, value seed.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return apperror.NewNotFound("user", userID)
	}
	setMeta(s.userMeta, userID, key, value)
	s.journal = append(s.journal, Write{Op: OpUserMeta, EntityID: userID, Key: key, Value: value})
	return nil
}

// SetPostMeta upserts a listing meta value.
func (s *Store) SetPostMeta(_ context.Context, postID int64, key string, value seed.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[postID]; !ok {
		return apperror.NewNotFound("listing", postID)
	}
	setMeta(s.postMeta, postID, key, value)
	s.journal = append(s.journal, Write{Op: OpPostMeta, EntityID: postID, Key: key, Value: value})
	return nil
}

// SetEntityTerms replaces the terms of a listing in taxonomy.
func (s *Store) SetEntityTerms(_ context.Context, postID int64, taxonomy string, termIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[postID]; !ok {
		return apperror.NewNotFound("listing", postID)
	}
	for _, id := range termIDs {
		t, ok := s.terms[id]
		if !ok || t.Taxonomy != taxonomy {
			return apperror.NewNotFound("term", id)
		}
	}
	m, ok := s.postTerm[postID]
	if !ok {
		m = make(map[string][]int64)
		s.postTerm[postID] = m
	}
	ids := append([]int64(nil), termIDs...)
	m[taxonomy] = ids
	s.journal = append(s.journal, Write{Op: OpEntityTerms, EntityID: postID, Key: taxonomy, Value: seed.TermsValue(ids)})
	return nil
}

// UserMeta returns a stored user meta value.
func (s *Store) UserMeta(userID int64, key string) (seed.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.userMeta[userID][key]
	return v, ok
}

// PostMeta returns a stored listing meta value.
func (s *Store) PostMeta(postID int64, key string) (seed.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.postMeta[postID][key]
	return v, ok
}

// EntityTerms returns the terms attached to a listing.
func (s *Store) EntityTerms(postID int64, taxonomy string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.postTerm[postID][taxonomy]...)
}

// Writes returns a copy of the write journal.
func (s *Store) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.journal...)
}

// --- options ---

// SetOption stores a site option.
func (s *Store) SetOption(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
	return nil
}

// GetOption returns a site option.
func (s *Store) GetOption(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.options[name]
	if !ok {
		return "", apperror.NewNotFound("option", name)
	}
	return v, nil
}

func setMeta(m map[int64]map[string]seed.Value, id int64, key string, value seed.Value) {
	inner, ok := m[id]
	if !ok {
		inner = make(map[string]seed.Value)
		m[id] = inner
	}
	inner[key] = value
}

func sortedKeys[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
