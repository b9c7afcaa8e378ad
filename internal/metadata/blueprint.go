package metadata

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Blueprint lists fields to create instead of one field per registered type.
//
//	version: 1
//	fields:
//	  - name: Plan
//	    type: radio
//	    meta_key: plan
//	    options:
//	      - {key: a, label: Basic}
//	      - {key: b, label: Pro}
type Blueprint struct {
	Version int              `yaml:"version"`
	Fields  []BlueprintField `yaml:"fields"`
}

type BlueprintField struct {
	Name        string    `yaml:"name"`
	Type        FieldType `yaml:"type"`
	MetaKey     string    `yaml:"meta_key"`
	Options     []Option  `yaml:"options"`
	Taxonomy    string    `yaml:"taxonomy"`
	Description string    `yaml:"description"`
	Placeholder string    `yaml:"placeholder"`
}

func ParseBlueprintYAML(b []byte) (Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(b, &bp); err != nil {
		return Blueprint{}, err
	}
	if bp.Version != 1 {
		return Blueprint{}, errors.New("blueprint: unsupported version")
	}
	if len(bp.Fields) == 0 {
		return Blueprint{}, errors.New("blueprint: no fields")
	}
	return bp, nil
}

func LoadBlueprint(path string) (Blueprint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Blueprint{}, err
	}
	return ParseBlueprintYAML(b)
}

// Definitions validates every blueprint field for kind. Priorities start at
// firstPriority and follow file order.
func (bp Blueprint) Definitions(kind FieldKind, firstPriority int) ([]FieldDefinition, error) {
	defs := make([]FieldDefinition, 0, len(bp.Fields))
	for i, f := range bp.Fields {
		metaKey := f.MetaKey
		if metaKey == "" {
			metaKey = MetaKeyFor(f.Type)
		}
		name := f.Name
		if name == "" {
			name = DefaultFieldName(f.Type)
		}
		def, err := NewFieldDefinition(FieldDefinition{
			Kind:        kind,
			Name:        name,
			Type:        f.Type,
			MetaKey:     metaKey,
			Options:     f.Options,
			Taxonomy:    f.Taxonomy,
			Description: f.Description,
			Placeholder: f.Placeholder,
			Priority:    firstPriority + i,
			Generated:   true,
		})
		if err != nil {
			return nil, fmt.Errorf("blueprint field %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
