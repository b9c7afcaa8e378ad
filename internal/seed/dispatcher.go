// Package seed turns field definitions into random values and writes them to
// users and listings.
package seed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pnodev/internal/core/apperror"
	"pnodev/internal/metadata"
)

var tracer = otel.Tracer("pnodev/seed")

// EntityKind selects the persistence call for a pair.
type EntityKind string

const (
	EntityUser    EntityKind = "user"
	EntityListing EntityKind = "listing"
)

// Entity is a seeding target.
type Entity struct {
	Kind EntityKind
	ID   int64
}

func User(id int64) Entity    { return Entity{Kind: EntityUser, ID: id} }
func Listing(id int64) Entity { return Entity{Kind: EntityListing, ID: id} }

func (e Entity) String() string {
	return fmt.Sprintf("%s:%d", e.Kind, e.ID)
}

// FieldRegistry supplies field definitions in display order.
type FieldRegistry interface {
	ListFields(ctx context.Context, filter metadata.FieldFilter) ([]metadata.FieldDefinition, error)
}

// TaxonomyProvider lists the term ids of a taxonomy.
type TaxonomyProvider interface {
	ListTerms(ctx context.Context, taxonomy string) ([]int64, error)
}

// MetaWriter persists generated values.
type MetaWriter interface {
	SetUserMeta(ctx context.Context, userID int64, key string, value Value) error
	SetPostMeta(ctx context.Context, postID int64, key string, value Value) error
	SetEntityTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error
}

// Dispatcher generates and persists one value per (field, entity) pair.
type Dispatcher struct {
	source *Source
	terms  TaxonomyProvider
	writer MetaWriter
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(source *Source, terms TaxonomyProvider, writer MetaWriter) *Dispatcher {
	return &Dispatcher{source: source, terms: terms, writer: writer}
}

// Seed returns the base seed of the dispatcher's source.
func (d *Dispatcher) Seed() int64 {
	return d.source.Seed()
}

// Dispatch computes a value for field and persists it on entity.
// Skips are *apperror.AppError values with Skip() == true and have no side
// effects. Write failures are persistence errors.
func (d *Dispatcher) Dispatch(ctx context.Context, field metadata.FieldDefinition, entity Entity) (Value, error) {
	ctx, span := tracer.Start(ctx, "dispatch",
		trace.WithAttributes(
			attribute.String("field.type", string(field.Type)),
			attribute.String("field.meta_key", field.MetaKey),
			attribute.String("entity", entity.String()),
		))
	defer span.End()

	value, err := d.generate(ctx, field, entity)
	if err == nil {
		err = d.persist(ctx, field, entity, value)
	}
	if err != nil {
		if reason := apperror.SkipReason(err); reason != "" {
			span.SetAttributes(attribute.String("skip.reason", reason))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return Value{}, err
	}
	return value, nil
}

// Generate computes the value for a pair without persisting it.
func (d *Dispatcher) Generate(ctx context.Context, field metadata.FieldDefinition, entity Entity) (Value, error) {
	return d.generate(ctx, field, entity)
}

func (d *Dispatcher) generate(ctx context.Context, field metadata.FieldDefinition, entity Entity) (Value, error) {
	fn, ok := dispatchTable[field.Type]
	if !ok {
		return Value{}, apperror.NewUnsupportedType(string(field.Type))
	}
	return fn(ctx, pair{
		field: field,
		faker: d.source.ForPair(field, entity),
		terms: d.terms,
	})
}

func (d *Dispatcher) persist(ctx context.Context, field metadata.FieldDefinition, entity Entity, value Value) error {
	var err error
	var op string
	switch {
	case entity.Kind == EntityUser:
		op = "set user meta"
		err = d.writer.SetUserMeta(ctx, entity.ID, field.MetaKey, value)
	case entity.Kind == EntityListing && value.Kind == ValueTerms:
		op = "set entity terms"
		err = d.writer.SetEntityTerms(ctx, entity.ID, field.Taxonomy, value.TermIDs)
	case entity.Kind == EntityListing:
		op = "set post meta"
		err = d.writer.SetPostMeta(ctx, entity.ID, field.MetaKey, value)
	default:
		return apperror.NewInvalidInput(fmt.Sprintf("unknown entity kind %q", entity.Kind))
	}
	if err != nil {
		return apperror.NewPersistence(op, err).
			WithDetail("meta_key", field.MetaKey).
			WithDetail("entity", entity.String())
	}
	return nil
}
