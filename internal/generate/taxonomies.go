package generate

import (
	"context"
	"fmt"
	"strings"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/seed"
)

// Taxonomies creates count terms in every listing taxonomy and returns the new
// term ids per taxonomy. In hierarchical taxonomies about half of the terms
// get an earlier term of the same run as parent.
func (s *Service) Taxonomies(ctx context.Context, count int) (map[string][]int64, error) {
	if count <= 0 {
		count = s.settings.TaxonomyTerms
	}

	created := make(map[string][]int64, len(directory.ListingTaxonomies))
	for _, tax := range directory.ListingTaxonomies {
		existing, err := s.store.ListTerms(ctx, tax.Name)
		if err != nil {
			return created, fmt.Errorf("list %s terms: %w", tax.Name, err)
		}
		offset := int64(len(existing))

		var ids []int64
		err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
			ids = ids[:0]
			for i := 0; i < count; i++ {
				f := s.source.ForScope("term/"+tax.Name, offset+int64(i))
				name := capitalize(f.Word()) + " " + f.Word()

				term := directory.Term{Taxonomy: tax.Name, Name: name}
				if tax.Hierarchical && len(ids) > 0 && f.Bool() {
					term.ParentID = seed.PickRandom(f.Rand, ids, 1)[0]
				}
				// slugs stay unique within a run even when words repeat
				term.Slug = fmt.Sprintf("%s-%d", directory.Slugify(name), offset+int64(i)+1)

				id, err := s.store.CreateTerm(ctx, term)
				if err != nil {
					return fmt.Errorf("create %s term: %w", tax.Name, err)
				}
				ids = append(ids, id)
			}
			return nil
		})
		if err != nil {
			return created, err
		}
		created[tax.Name] = ids
		s.log.Infow("terms generated", "taxonomy", tax.Name, "count", len(ids))
	}
	return created, nil
}

// Terms returns the term ids of a listing taxonomy.
func (s *Service) Terms(ctx context.Context, taxonomy string) ([]int64, error) {
	if _, ok := directory.FindTaxonomy(taxonomy); !ok {
		return nil, apperror.NewNotFound("taxonomy", taxonomy)
	}
	return s.store.ListTerms(ctx, taxonomy)
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
