package generate

import (
	"context"
	"fmt"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/seed"
)

// Status assigns a random status to amount random listings and returns the
// number of listings per status.
func (s *Service) Status(ctx context.Context, amount int) (map[string]int, error) {
	if amount <= 0 {
		return nil, apperror.NewInvalidInput("amount must be positive")
	}
	ids, err := s.store.ListListingIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	if len(ids) == 0 {
		return nil, apperror.NewNotFound("listing", "any")
	}

	f := s.source.ForScope("status", int64(len(ids)))
	counts := make(map[string]int, len(directory.ListingStatuses))
	for _, id := range seed.PickRandom(f.Rand, ids, amount) {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		status := directory.ListingStatuses[f.Rand.Intn(len(directory.ListingStatuses))]
		if err := s.store.SetListingStatus(ctx, id, status); err != nil {
			return counts, fmt.Errorf("set status of listing %d: %w", id, err)
		}
		counts[status]++
	}

	s.log.Infow("listing statuses changed", "counts", counts)
	return counts, nil
}
