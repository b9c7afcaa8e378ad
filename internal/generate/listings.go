package generate

import (
	"context"
	"fmt"
	"strings"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

// ListingsRequest drives "generate listings".
type ListingsRequest struct {
	Amount int
	// Author is an id, email or login. Empty picks a random user per listing.
	Author   string
	Images   bool
	Populate bool
	Where    *metadata.Expression
}

// ListingsReport lists the listings a run created.
type ListingsReport struct {
	Created   []int64
	Images    int
	Populated *seed.Summary
}

// Listings creates published listings. Image provider errors are logged and
// leave the listing without a featured image.
func (s *Service) Listings(ctx context.Context, req ListingsRequest) (ListingsReport, error) {
	if req.Amount <= 0 {
		return ListingsReport{}, apperror.NewInvalidInput("amount must be positive")
	}

	var (
		authorID int64
		authors  []int64
	)
	if req.Author != "" {
		u, err := s.store.FindUser(ctx, req.Author)
		if err != nil {
			return ListingsReport{}, fmt.Errorf("resolve author %q: %w", req.Author, err)
		}
		authorID = u.ID
	} else {
		ids, err := s.store.ListUserIDs(ctx)
		if err != nil {
			return ListingsReport{}, fmt.Errorf("list users: %w", err)
		}
		if len(ids) == 0 {
			s.log.Warnw("no users found, listings will have no author")
		}
		authors = ids
	}

	existing, err := s.store.ListListingIDs(ctx)
	if err != nil {
		return ListingsReport{}, fmt.Errorf("list listings: %w", err)
	}
	offset := int64(len(existing))

	var report ListingsReport
	for i := 0; i < req.Amount; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		f := s.source.ForScope("listings", offset+int64(i))

		l := directory.Listing{
			AuthorID: authorID,
			Title:    strings.TrimSuffix(f.Sentence(4), "."),
			Content:  f.Paragraph(2, 4, 12, "\n\n"),
			Status:   directory.StatusPublish,
		}
		if l.AuthorID == 0 && len(authors) > 0 {
			l.AuthorID = seed.PickRandom(f.Rand, authors, 1)[0]
		}
		if req.Images {
			url, err := s.photos.RandomImage(ctx, l.Title)
			if err != nil {
				s.log.Warnw("featured image skipped", "title", l.Title, "error", err)
			} else {
				l.FeaturedImage = url
				report.Images++
			}
		}

		id, err := s.store.CreateListing(ctx, l)
		if err != nil {
			return report, fmt.Errorf("create listing: %w", err)
		}
		report.Created = append(report.Created, id)
	}

	s.log.Infow("listings generated", "created", len(report.Created), "images", report.Images)

	if req.Populate {
		sum, err := s.populate(ctx, metadata.KindListing, req.Where, report.Created)
		if err != nil {
			return report, err
		}
		report.Populated = &sum
	}
	return report, nil
}
