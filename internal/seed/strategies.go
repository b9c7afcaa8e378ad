package seed

import (
	"context"
	"math"
	"sort"

	"github.com/brianvoe/gofakeit/v6"

	"pnodev/internal/core/apperror"
	"pnodev/internal/metadata"
)

const (
	sentenceWords   = 10
	paragraphCount  = 2
	choicePicks     = 2
	radioIndex      = 1
	termPicks       = 3
	maxNumberValue  = math.MaxInt32
	paragraphJoiner = "\n\n"
)

// pair is the input of one strategy call.
type pair struct {
	field metadata.FieldDefinition
	faker *gofakeit.Faker
	terms TaxonomyProvider
}

// strategy computes a value for one pair without persisting it.
type strategy func(ctx context.Context, p pair) (Value, error)

// dispatchTable maps every seeded type tag to its strategy. Types missing
// here (file included) are skipped as unsupported.
var dispatchTable = map[metadata.FieldType]strategy{
	metadata.TypeURL:               urlValue,
	metadata.TypeEmail:             emailValue,
	metadata.TypePassword:          sentenceValue,
	metadata.TypeText:              sentenceValue,
	metadata.TypeEditor:            paragraphsValue,
	metadata.TypeTextarea:          paragraphsValue,
	metadata.TypeSelect:            choiceValue,
	metadata.TypeMultiselect:       choiceValue,
	metadata.TypeMulticheckbox:     choiceValue,
	metadata.TypeRadio:             radioValue,
	metadata.TypeCheckbox:          checkboxValue,
	metadata.TypeNumber:            numberValue,
	metadata.TypeTermSelect:        termsValue,
	metadata.TypeTermMultiselect:   termsValue,
	metadata.TypeTermChecklist:     termsValue,
	metadata.TypeTermChainDropdown: termsValue,
}

// SupportedTypes lists the dispatch table keys in sorted order.
func SupportedTypes() []metadata.FieldType {
	out := make([]metadata.FieldType, 0, len(dispatchTable))
	for t := range dispatchTable {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether t has a strategy.
func Supports(t metadata.FieldType) bool {
	_, ok := dispatchTable[t]
	return ok
}

func urlValue(_ context.Context, p pair) (Value, error) {
	return TextValue(p.faker.URL()), nil
}

func emailValue(_ context.Context, p pair) (Value, error) {
	return TextValue(p.faker.Email()), nil
}

func sentenceValue(_ context.Context, p pair) (Value, error) {
	return TextValue(p.faker.Sentence(sentenceWords)), nil
}

func paragraphsValue(_ context.Context, p pair) (Value, error) {
	return TextValue(p.faker.Paragraph(paragraphCount, 3, sentenceWords, paragraphJoiner)), nil
}

func choiceValue(_ context.Context, p pair) (Value, error) {
	keys := distinctKeys(p.field.Options)
	if len(keys) < choicePicks {
		return Value{}, apperror.NewInsufficientOptions(p.field.MetaKey, choicePicks, len(keys))
	}
	idx := pickIndexes(p.faker.Rand, len(keys), choicePicks)
	picked := make([]string, len(idx))
	for i, j := range idx {
		picked[i] = keys[j]
	}
	return KeysValue(picked), nil
}

// radioValue always selects the second declared option so fixtures stay
// reproducible and never hide a "first option" default.
func radioValue(_ context.Context, p pair) (Value, error) {
	keys := distinctKeys(p.field.Options)
	if len(keys) <= radioIndex {
		return Value{}, apperror.NewInsufficientOptions(p.field.MetaKey, radioIndex+1, len(keys))
	}
	return KeyValue(keys[radioIndex]), nil
}

// distinctKeys returns non-empty option keys in declaration order, first
// occurrence wins.
func distinctKeys(opts []metadata.Option) []string {
	keys := make([]string, 0, len(opts))
	seen := make(map[string]struct{}, len(opts))
	for _, opt := range opts {
		if opt.Key == "" {
			continue
		}
		if _, dup := seen[opt.Key]; dup {
			continue
		}
		seen[opt.Key] = struct{}{}
		keys = append(keys, opt.Key)
	}
	return keys
}

func checkboxValue(_ context.Context, _ pair) (Value, error) {
	return BoolValue(true), nil
}

func numberValue(_ context.Context, p pair) (Value, error) {
	return IntValue(int64(p.faker.Number(0, maxNumberValue))), nil
}

func termsValue(ctx context.Context, p pair) (Value, error) {
	taxonomy := p.field.Taxonomy
	if taxonomy == "" || p.terms == nil {
		return Value{}, apperror.NewTaxonomyUnresolved(taxonomy)
	}
	ids, err := p.terms.ListTerms(ctx, taxonomy)
	if err != nil {
		return Value{}, apperror.NewPersistence("list terms", err).WithDetail("taxonomy", taxonomy)
	}
	if len(ids) == 0 {
		return Value{}, apperror.NewTaxonomyUnresolved(taxonomy)
	}
	return TermsValue(PickRandom(p.faker.Rand, ids, termPicks)), nil
}
