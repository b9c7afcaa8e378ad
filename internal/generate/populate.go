package generate

import (
	"context"
	"fmt"

	"pnodev/internal/core/apperror"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

// Populate fills every field of kind for every existing entity of that kind.
func (s *Service) Populate(ctx context.Context, kind metadata.FieldKind, where *metadata.Expression) (seed.Summary, error) {
	var (
		ids []int64
		err error
	)
	switch kind {
	case metadata.KindProfile:
		ids, err = s.store.ListUserIDs(ctx)
	case metadata.KindListing:
		ids, err = s.store.ListListingIDs(ctx)
	default:
		return seed.Summary{}, apperror.NewInvalidInput("cannot populate " + string(kind) + " fields")
	}
	if err != nil {
		return seed.Summary{}, fmt.Errorf("list %s entities: %w", kind, err)
	}
	return s.populate(ctx, kind, where, ids)
}

func (s *Service) populate(ctx context.Context, kind metadata.FieldKind, where *metadata.Expression, ids []int64) (seed.Summary, error) {
	fields, err := s.fields.ListFields(ctx, metadata.FieldFilter{Kind: kind, Where: where})
	if err != nil {
		return seed.Summary{}, fmt.Errorf("list %s fields: %w", kind, err)
	}
	if len(fields) == 0 || len(ids) == 0 {
		s.log.Infow("nothing to populate", "kind", kind, "fields", len(fields), "entities", len(ids))
		return seed.Summary{}, nil
	}

	entities := make([]seed.Entity, len(ids))
	for i, id := range ids {
		if kind == metadata.KindListing {
			entities[i] = seed.Listing(id)
		} else {
			entities[i] = seed.User(id)
		}
	}

	s.log.Infow("populating fields",
		"kind", kind,
		"fields", len(fields),
		"entities", len(entities),
		"seed", s.source.Seed(),
	)
	runner := seed.NewRunner(s.dispatcher,
		seed.WithWorkers(s.settings.Workers),
		seed.WithObserver(s.observer),
	)
	return runner.Run(ctx, fields, entities)
}
