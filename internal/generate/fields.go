package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"pnodev/internal/core/apperror"
	"pnodev/internal/domain/directory"
	"pnodev/internal/metadata"
	"pnodev/internal/seed"
)

// Types the host plugin provides for itself or that only make sense on one form.
var (
	profileExcluded = []metadata.FieldType{
		metadata.TypeSocialProfiles,
		metadata.TypeListingCategory,
		metadata.TypeListingTags,
		metadata.TypeTermSelect,
		metadata.TypeTermMultiselect,
		metadata.TypeTermChecklist,
		metadata.TypeTermChainDropdown,
		metadata.TypeOpeningHours,
		metadata.TypeListingLocation,
	}
	listingExcluded = []metadata.FieldType{
		metadata.TypeSocialProfiles,
		metadata.TypeListingCategory,
		metadata.TypeListingTags,
		metadata.TypeOpeningHours,
		metadata.TypeListingLocation,
	}
)

// FieldsRequest drives profile_fields and listings_fields.
type FieldsRequest struct {
	// Blueprint replaces the one-field-per-type set when non-nil.
	Blueprint *metadata.Blueprint
	Populate  bool
	Where     *metadata.Expression
}

// FieldsReport describes what a field command changed.
type FieldsReport struct {
	Deleted      int
	Created      []metadata.FieldDefinition
	Registration int
	Populated    *seed.Summary
}

// ProfileFields replaces the generated profile fields and their registration
// mirrors, then optionally fills values for every user.
func (s *Service) ProfileFields(ctx context.Context, req FieldsRequest) (FieldsReport, error) {
	var report FieldsReport
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, kind := range []metadata.FieldKind{metadata.KindProfile, metadata.KindRegistration} {
			n, err := s.store.DeleteGeneratedFields(ctx, kind)
			if err != nil {
				return fmt.Errorf("delete %s fields: %w", kind, err)
			}
			report.Deleted += n
		}

		defs, err := s.fieldDefinitions(metadata.KindProfile, req.Blueprint)
		if err != nil {
			return err
		}
		created, err := s.createFields(ctx, defs)
		if err != nil {
			return err
		}
		report.Created = created

		for _, def := range created {
			if def.Type == metadata.TypeFile {
				continue
			}
			mirror := def
			mirror.ID = 0
			mirror.Kind = metadata.KindRegistration
			mirror.ProfileFieldID = def.ID
			if _, err := s.store.CreateField(ctx, mirror); err != nil {
				return fmt.Errorf("create registration field %s: %w", def.MetaKey, err)
			}
			report.Registration++
		}
		return nil
	})
	if err != nil {
		return FieldsReport{}, err
	}
	s.fields.Invalidate(metadata.KindProfile)
	s.fields.Invalidate(metadata.KindRegistration)

	s.log.Infow("profile fields generated",
		"deleted", report.Deleted,
		"created", len(report.Created),
		"registration", report.Registration,
	)

	if req.Populate {
		sum, err := s.Populate(ctx, metadata.KindProfile, req.Where)
		if err != nil {
			return report, err
		}
		report.Populated = &sum
	}
	return report, nil
}

// ListingFields replaces the generated listing fields, then optionally fills
// values for every listing.
func (s *Service) ListingFields(ctx context.Context, req FieldsRequest) (FieldsReport, error) {
	var report FieldsReport
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.store.DeleteGeneratedFields(ctx, metadata.KindListing)
		if err != nil {
			return fmt.Errorf("delete listing fields: %w", err)
		}
		report.Deleted = n

		defs, err := s.fieldDefinitions(metadata.KindListing, req.Blueprint)
		if err != nil {
			return err
		}
		report.Created, err = s.createFields(ctx, defs)
		return err
	})
	if err != nil {
		return FieldsReport{}, err
	}
	s.fields.Invalidate(metadata.KindListing)

	s.log.Infow("listing fields generated",
		"deleted", report.Deleted,
		"created", len(report.Created),
	)

	if req.Populate {
		sum, err := s.Populate(ctx, metadata.KindListing, req.Where)
		if err != nil {
			return report, err
		}
		report.Populated = &sum
	}
	return report, nil
}

func (s *Service) fieldDefinitions(kind metadata.FieldKind, bp *metadata.Blueprint) ([]metadata.FieldDefinition, error) {
	if bp != nil {
		defs, err := bp.Definitions(kind, s.settings.FirstPriority)
		if err != nil {
			return nil, apperror.NewInvalidInput("blueprint").WithCause(err)
		}
		return defs, nil
	}
	return s.typeDefinitions(kind), nil
}

// typeDefinitions builds one field per registered type.
func (s *Service) typeDefinitions(kind metadata.FieldKind) []metadata.FieldDefinition {
	exclude := profileExcluded
	if kind == metadata.KindListing {
		exclude = listingExcluded
	}

	types := metadata.RegisteredTypes(exclude...)
	defs := make([]metadata.FieldDefinition, 0, len(types))
	termFields := 0
	for i, td := range types {
		f := s.source.ForScope("field/"+string(kind)+"/"+string(td.Type), 0)
		def := metadata.FieldDefinition{
			Kind:        kind,
			Name:        metadata.DefaultFieldName(td.Type),
			Type:        td.Type,
			MetaKey:     metadata.MetaKeyFor(td.Type),
			Description: f.Sentence(6),
			Placeholder: f.Sentence(6),
			Priority:    s.settings.FirstPriority + i,
			Generated:   true,
		}
		if td.SupportsOptions {
			def.Options = randomOptions(f, s.settings.OptionsPerField)
		}
		if metadata.IsTermType(td.Type) {
			def.Taxonomy = directory.ListingTaxonomies[termFields%len(directory.ListingTaxonomies)].Name
			termFields++
		}
		defs = append(defs, def)
	}
	return defs
}

func (s *Service) createFields(ctx context.Context, defs []metadata.FieldDefinition) ([]metadata.FieldDefinition, error) {
	created := make([]metadata.FieldDefinition, 0, len(defs))
	for _, def := range defs {
		id, err := s.store.CreateField(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("create field %s: %w", def.MetaKey, err)
		}
		def.ID = id
		created = append(created, def)
		s.log.Debugw("field created", "id", id, "type", def.Type, "meta_key", def.MetaKey)
	}
	return created, nil
}

// randomOptions returns n single-word options with distinct keys.
func randomOptions(f *gofakeit.Faker, n int) []metadata.Option {
	opts := make([]metadata.Option, 0, n)
	seen := make(map[string]struct{}, n)
	for attempt := 0; len(opts) < n; attempt++ {
		word := strings.ToLower(f.Word())
		if attempt >= n*10 {
			word = fmt.Sprintf("%s%d", word, attempt)
		}
		key := directory.Slugify(word)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		opts = append(opts, metadata.Option{Key: key, Label: word})
	}
	return opts
}
