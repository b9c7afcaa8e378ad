package seed

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates Value.
type ValueKind string

const (
	ValueText  ValueKind = "text"
	ValueBool  ValueKind = "bool"
	ValueInt   ValueKind = "int"
	ValueKeys  ValueKind = "keys"
	ValueKey   ValueKind = "key"
	ValueTerms ValueKind = "terms"
)

// Value is one generated field value. Exactly one payload matches Kind.
type Value struct {
	Kind    ValueKind
	Text    string
	Bool    bool
	Int     int64
	Keys    []string
	Key     string
	TermIDs []int64
}

func TextValue(s string) Value      { return Value{Kind: ValueText, Text: s} }
func BoolValue(b bool) Value        { return Value{Kind: ValueBool, Bool: b} }
func IntValue(n int64) Value        { return Value{Kind: ValueInt, Int: n} }
func KeysValue(keys []string) Value { return Value{Kind: ValueKeys, Keys: keys} }
func KeyValue(key string) Value     { return Value{Kind: ValueKey, Key: key} }
func TermsValue(ids []int64) Value  { return Value{Kind: ValueTerms, TermIDs: ids} }

// IsZero reports whether no variant is set.
func (v Value) IsZero() bool {
	return v.Kind == ""
}

// Any returns the payload of the active variant.
func (v Value) Any() any {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueBool:
		return v.Bool
	case ValueInt:
		return v.Int
	case ValueKeys:
		return v.Keys
	case ValueKey:
		return v.Key
	case ValueTerms:
		return v.TermIDs
	}
	return nil
}

// MarshalJSON encodes the payload only; this is the stored meta value.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return nil, fmt.Errorf("marshal empty value")
	}
	return json.Marshal(v.Any())
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.Kind, v.Any())
}
