// Package metadata describes dynamically configured profile and listing fields.
package metadata

import (
	"strings"

	"pnodev/internal/core/apperror"
)

// FieldKind defines which form a field belongs to.
type FieldKind string

const (
	KindProfile      FieldKind = "profile"
	KindListing      FieldKind = "listing"
	KindRegistration FieldKind = "registration"
)

// FieldType is the type tag of a field.
type FieldType string

const (
	TypeText              FieldType = "text"
	TypeEmail             FieldType = "email"
	TypeURL               FieldType = "url"
	TypePassword          FieldType = "password"
	TypeEditor            FieldType = "editor"
	TypeTextarea          FieldType = "textarea"
	TypeSelect            FieldType = "select"
	TypeMultiselect       FieldType = "multiselect"
	TypeMulticheckbox     FieldType = "multicheckbox"
	TypeRadio             FieldType = "radio"
	TypeCheckbox          FieldType = "checkbox"
	TypeNumber            FieldType = "number"
	TypeFile              FieldType = "file"
	TypeTermSelect        FieldType = "term-select"
	TypeTermMultiselect   FieldType = "term-multiselect"
	TypeTermChecklist     FieldType = "term-checklist"
	TypeTermChainDropdown FieldType = "term-chain-dropdown"
	TypeSocialProfiles    FieldType = "social-profiles"
	TypeListingCategory   FieldType = "listing-category"
	TypeListingTags       FieldType = "listing-tags"
	TypeOpeningHours      FieldType = "listing-opening-hours"
	TypeListingLocation   FieldType = "listing-location"
)

// TypeDef declares the capabilities of a field type.
type TypeDef struct {
	Type             FieldType
	Label            string
	SupportsOptions  bool
	SupportsTaxonomy bool
	MultiValue       bool
}

// catalog is ordered the way types are offered by the host plugin.
var catalog = []TypeDef{
	{Type: TypeText, Label: "Single text line"},
	{Type: TypeTextarea, Label: "Textarea"},
	{Type: TypeEditor, Label: "Text editor"},
	{Type: TypeEmail, Label: "Email address"},
	{Type: TypePassword, Label: "Password"},
	{Type: TypeURL, Label: "Website"},
	{Type: TypeSelect, Label: "Dropdown", SupportsOptions: true},
	{Type: TypeMultiselect, Label: "Multiselect", SupportsOptions: true, MultiValue: true},
	{Type: TypeMulticheckbox, Label: "Multiple checkboxes", SupportsOptions: true, MultiValue: true},
	{Type: TypeRadio, Label: "Radio", SupportsOptions: true},
	{Type: TypeCheckbox, Label: "Checkbox"},
	{Type: TypeNumber, Label: "Number"},
	{Type: TypeFile, Label: "File upload", MultiValue: true},
	{Type: TypeSocialProfiles, Label: "Social profiles", MultiValue: true},
	{Type: TypeListingCategory, Label: "Listing category", SupportsTaxonomy: true},
	{Type: TypeListingTags, Label: "Listing tags", SupportsTaxonomy: true, MultiValue: true},
	{Type: TypeTermSelect, Label: "Term dropdown", SupportsTaxonomy: true},
	{Type: TypeTermMultiselect, Label: "Term multiselect", SupportsTaxonomy: true, MultiValue: true},
	{Type: TypeTermChecklist, Label: "Term checklist", SupportsTaxonomy: true, MultiValue: true},
	{Type: TypeTermChainDropdown, Label: "Term chain dropdown", SupportsTaxonomy: true, MultiValue: true},
	{Type: TypeOpeningHours, Label: "Opening hours", MultiValue: true},
	{Type: TypeListingLocation, Label: "Listing location"},
}

var catalogIndex = func() map[FieldType]TypeDef {
	m := make(map[FieldType]TypeDef, len(catalog))
	for _, def := range catalog {
		m[def.Type] = def
	}
	return m
}()

// Types returns every registered type in catalog order.
func Types() []TypeDef {
	return append([]TypeDef(nil), catalog...)
}

// Lookup returns the definition of a registered type.
func Lookup(t FieldType) (TypeDef, bool) {
	def, ok := catalogIndex[t]
	return def, ok
}

// RegisteredTypes returns catalog types minus the excluded ones.
func RegisteredTypes(exclude ...FieldType) []TypeDef {
	skip := make(map[FieldType]struct{}, len(exclude))
	for _, t := range exclude {
		skip[t] = struct{}{}
	}
	out := make([]TypeDef, 0, len(catalog))
	for _, def := range catalog {
		if _, ok := skip[def.Type]; ok {
			continue
		}
		out = append(out, def)
	}
	return out
}

// IsTermType reports whether values of t are taxonomy term ids.
func IsTermType(t FieldType) bool {
	switch t {
	case TypeTermSelect, TypeTermMultiselect, TypeTermChecklist, TypeTermChainDropdown:
		return true
	}
	return false
}

// MetaKeyFor derives the storage key for a generated field of type t.
func MetaKeyFor(t FieldType) string {
	return strings.ToLower(strings.ReplaceAll(string(t), "-", "_"))
}

// DefaultFieldName names a generated field after its type label.
func DefaultFieldName(t FieldType) string {
	label := string(t)
	if td, ok := Lookup(t); ok {
		label = td.Label
	}
	return "Test " + label + " field"
}

// Option is one selectable choice.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// FieldDefinition describes one profile or listing field.
type FieldDefinition struct {
	ID             int64
	Kind           FieldKind
	Name           string
	Type           FieldType
	MetaKey        string
	Options        []Option
	Taxonomy       string
	Description    string
	Placeholder    string
	Priority       int
	ProfileFieldID int64
	Generated      bool
}

// NewFieldDefinition validates a definition against the type catalog.
// An option-capable field with no options is accepted here; dispatch skips it.
func NewFieldDefinition(def FieldDefinition) (FieldDefinition, error) {
	def.MetaKey = strings.TrimSpace(def.MetaKey)
	if def.MetaKey == "" {
		return FieldDefinition{}, apperror.NewInvalidField(def.MetaKey, "meta key is required")
	}
	if def.Kind == "" {
		def.Kind = KindProfile
	}

	td, known := Lookup(def.Type)
	if len(def.Options) > 0 {
		if known && !td.SupportsOptions {
			return FieldDefinition{}, apperror.NewInvalidField(def.MetaKey,
				"type "+string(def.Type)+" does not support options")
		}
		seen := make(map[string]struct{}, len(def.Options))
		for _, opt := range def.Options {
			if opt.Key == "" {
				return FieldDefinition{}, apperror.NewInvalidField(def.MetaKey, "option key is empty")
			}
			if _, dup := seen[opt.Key]; dup {
				return FieldDefinition{}, apperror.NewInvalidField(def.MetaKey, "duplicate option key "+opt.Key)
			}
			seen[opt.Key] = struct{}{}
		}
	}
	if def.Taxonomy != "" && known && !td.SupportsTaxonomy {
		return FieldDefinition{}, apperror.NewInvalidField(def.MetaKey,
			"type "+string(def.Type)+" does not support a taxonomy")
	}

	def.Options = append([]Option(nil), def.Options...)
	return def, nil
}

// OptionKeys returns option keys in declaration order.
func (f FieldDefinition) OptionKeys() []string {
	keys := make([]string, len(f.Options))
	for i, opt := range f.Options {
		keys[i] = opt.Key
	}
	return keys
}

// FieldFilter narrows ListFields results.
type FieldFilter struct {
	Kind          FieldKind
	ExcludeTypes  []FieldType
	Where         *Expression
	OnlyGenerated bool
}

// Match applies the filter to one definition.
func (f FieldFilter) Match(def FieldDefinition) (bool, error) {
	if f.Kind != "" && def.Kind != f.Kind {
		return false, nil
	}
	if f.OnlyGenerated && !def.Generated {
		return false, nil
	}
	for _, t := range f.ExcludeTypes {
		if def.Type == t {
			return false, nil
		}
	}
	if f.Where != nil {
		return f.Where.Match(def)
	}
	return true, nil
}

// Apply filters defs, preserving order.
func (f FieldFilter) Apply(defs []FieldDefinition) ([]FieldDefinition, error) {
	out := make([]FieldDefinition, 0, len(defs))
	for _, def := range defs {
		ok, err := f.Match(def)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, def)
		}
	}
	return out, nil
}
