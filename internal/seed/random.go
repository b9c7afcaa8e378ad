package seed

import (
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cespare/xxhash/v2"

	"pnodev/internal/metadata"
)

// Source hands out a dedicated generator per (field, entity) pair. Pair
// generators are derived from the base seed, so the same seed reproduces the
// same values no matter how pairs are scheduled across workers.
type Source struct {
	base int64
}

// NewSource creates a Source. A zero seed picks a time-based base seed;
// read it back with Seed to replay the run.
func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{base: seed}
}

// Seed returns the base seed.
func (s *Source) Seed() int64 {
	return s.base
}

// ForPair returns a fresh generator for one pair.
func (s *Source) ForPair(field metadata.FieldDefinition, entity Entity) *gofakeit.Faker {
	return gofakeit.New(s.pairSeed(string(field.Kind), field.MetaKey, string(entity.Kind), entity.ID))
}

// ForScope returns a generator for non-pair work (record names, terms).
func (s *Source) ForScope(scope string, n int64) *gofakeit.Faker {
	return gofakeit.New(s.pairSeed("scope", scope, "", n))
}

func (s *Source) pairSeed(parts ...any) int64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatInt(s.base, 10))
	for _, p := range parts {
		_, _ = d.WriteString("|")
		switch v := p.(type) {
		case string:
			_, _ = d.WriteString(v)
		case int64:
			_, _ = d.WriteString(strconv.FormatInt(v, 10))
		}
	}
	seed := int64(d.Sum64() >> 1)
	if seed == 0 {
		// gofakeit treats 0 as "seed from crypto/rand"
		seed = 1
	}
	return seed
}

// PickRandom returns min(n, len(ids)) distinct ids chosen with rng, kept in
// their input order.
func PickRandom(rng *rand.Rand, ids []int64, n int) []int64 {
	idx := pickIndexes(rng, len(ids), n)
	out := make([]int64, len(idx))
	for i, j := range idx {
		out[i] = ids[j]
	}
	return out
}

// pickIndexes returns min(n, size) distinct sorted indexes in [0, size).
func pickIndexes(rng *rand.Rand, size, n int) []int {
	if n > size {
		n = size
	}
	if n <= 0 {
		return []int{}
	}
	idx := rng.Perm(size)[:n]
	sort.Ints(idx)
	return idx
}
