// Package generate creates test records (fields, taxonomies, users, listings)
// and fills field values through the seed runner.
package generate

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"pnodev/internal/core/tx"
	"pnodev/internal/domain/directory"
	"pnodev/internal/infrastructure/cache"
	"pnodev/internal/infrastructure/photo"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
	"pnodev/pkg/logger"
)

// Store is everything the generators read and write.
type Store interface {
	seed.FieldRegistry
	seed.TaxonomyProvider
	seed.MetaWriter

	CreateField(ctx context.Context, def metadata.FieldDefinition) (int64, error)
	DeleteGeneratedFields(ctx context.Context, kind metadata.FieldKind) (int, error)
	CreateTerm(ctx context.Context, term directory.Term) (int64, error)
	CreateUser(ctx context.Context, u directory.User) (int64, error)
	FindUser(ctx context.Context, identifier string) (directory.User, error)
	CreateListing(ctx context.Context, l directory.Listing) (int64, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	ListListingIDs(ctx context.Context) ([]int64, error)
	SetListingStatus(ctx context.Context, id int64, status string) error
	GetOption(ctx context.Context, name string) (string, error)
}

// Settings tune the generators.
type Settings struct {
	FirstPriority   int
	OptionsPerField int
	TaxonomyTerms   int
	Workers         int
	BcryptCost      int
}

// DefaultSettings mirrors the host plugin's conventions.
func DefaultSettings() Settings {
	return Settings{
		FirstPriority:   101,
		OptionsPerField: 3,
		TaxonomyTerms:   10,
		Workers:         seed.DefaultWorkers,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// Service runs the generate commands.
type Service struct {
	store      Store
	fields     *cache.FieldCache
	tx         tx.Manager
	source     *seed.Source
	dispatcher *seed.Dispatcher
	photos     photo.Provider
	observer   seed.Observer
	settings   Settings
	log        *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTxManager wraps multi-step writes in transactions.
func WithTxManager(m tx.Manager) Option {
	return func(s *Service) { s.tx = m }
}

// WithPhotoProvider sets the featured image source.
func WithPhotoProvider(p photo.Provider) Option {
	return func(s *Service) { s.photos = p }
}

// WithObserver receives runner progress.
func WithObserver(o seed.Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithSettings overrides DefaultSettings. Zero fields keep their default.
func WithSettings(st Settings) Option {
	return func(s *Service) {
		d := s.settings
		if st.FirstPriority > 0 {
			d.FirstPriority = st.FirstPriority
		}
		if st.OptionsPerField > 0 {
			d.OptionsPerField = st.OptionsPerField
		}
		if st.TaxonomyTerms > 0 {
			d.TaxonomyTerms = st.TaxonomyTerms
		}
		if st.Workers > 0 {
			d.Workers = st.Workers
		}
		if st.BcryptCost > 0 {
			d.BcryptCost = st.BcryptCost
		}
		s.settings = d
	}
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a service over store. Values derive from source.
func NewService(store Store, source *seed.Source, opts ...Option) *Service {
	s := &Service{
		store:    store,
		fields:   cache.NewFieldCache(store),
		tx:       tx.Nop{},
		source:   source,
		observer: seed.NopObserver{},
		settings: DefaultSettings(),
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.photos == nil {
		s.photos = photo.NewPlaceholder(source.ForScope("photos", 0).Rand)
	}
	s.log = s.log.WithComponent("generate")
	s.fields.AddListener(func(kind metadata.FieldKind) {
		s.log.Debugw("field cache invalidated", "kind", kind, "entries", s.fields.Len())
	})
	s.dispatcher = seed.NewDispatcher(source, store, store)
	return s
}

// Seed returns the base seed, for replaying a run.
func (s *Service) Seed() int64 {
	return s.source.Seed()
}
