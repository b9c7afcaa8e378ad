// Package photo finds featured images for generated listings.
package photo

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
)

// Provider returns one image URL per call.
type Provider interface {
	RandomImage(ctx context.Context, query string) (string, error)
}

// Placeholder serves picsum.photos URLs without calling any API.
type Placeholder struct {
	faker  *gofakeit.Faker
	width  int
	height int
}

// NewPlaceholder creates a placeholder provider. rng may be nil.
func NewPlaceholder(rng *rand.Rand) *Placeholder {
	f := gofakeit.New(0)
	if rng != nil {
		f = &gofakeit.Faker{Rand: rng}
	}
	return &Placeholder{faker: f, width: 1280, height: 853}
}

func (p *Placeholder) RandomImage(context.Context, string) (string, error) {
	// picsum serves a different picture per distinct query string
	return fmt.Sprintf("%s?random=%d", p.faker.ImageURL(p.width, p.height), p.faker.Number(1, 1_000_000)), nil
}
