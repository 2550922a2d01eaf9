package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a coerced field value. Kind selects which member carries the
// value: Number for numeric types, Bool for boolean, List for multi_select,
// Text for everything else.
type Value struct {
	Kind   FieldType
	Text   string
	Number float64
	Bool   bool
	List   []string
}

// String returns the canonical form used for display and for harness
// comparisons.
func (v Value) String() string {
	switch v.Kind {
	case TypeNumber, TypeCurrency:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case TypeYear:
		return strconv.Itoa(int(v.Number))
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeMultiSelect:
		return strings.Join(v.List, ",")
	default:
		return v.Text
	}
}

// booleanForms is the closed lexical set accepted for boolean fields.
var booleanForms = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "y": true,
	"true": true, "correct": true,
	"no": false, "nope": false, "nah": false, "n": false,
	"false": false, "incorrect": false,
}

// NormalizeOption folds a captured phrase into enum value ID form:
// lowercased with whitespace runs collapsed to single underscores.
func NormalizeOption(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), "_")
}

// Coerce converts a captured raw string into a typed Value according to
// the field's declared type. A coercion failure means the pattern that
// produced the capture should be rejected, not that the input is bad;
// extraction moves on to the next pattern.
//
// enum is the field's linked enum and is required for select types; it is
// ignored otherwise.
func Coerce(f *Field, enum *Enum, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch f.Type {
	case TypeNumber, TypeCurrency:
		n, err := parseNumber(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: f.Type, Number: n}, nil
	case TypeYear:
		y, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a year", raw)
		}
		return Value{Kind: f.Type, Number: float64(y)}, nil
	case TypeBoolean:
		b, ok := booleanForms[strings.ToLower(raw)]
		if !ok {
			return Value{}, fmt.Errorf("%q is not a recognized boolean form", raw)
		}
		return Value{Kind: f.Type, Bool: b}, nil
	case TypeSelect:
		id := NormalizeOption(raw)
		if enum == nil || !enum.IsValid(id) {
			return Value{}, fmt.Errorf("%q is not a value of enum %q", id, f.Enum)
		}
		return Value{Kind: f.Type, Text: id}, nil
	case TypeMultiSelect:
		id := NormalizeOption(raw)
		if enum == nil || !enum.IsValid(id) {
			return Value{}, fmt.Errorf("%q is not a value of enum %q", id, f.Enum)
		}
		return Value{Kind: f.Type, List: []string{id}}, nil
	case TypeText, TypeDate, TypeAddress, TypePhone, TypeEmail:
		return Value{Kind: f.Type, Text: raw}, nil
	default:
		return Value{}, fmt.Errorf("field %q has unknown type %q", f.ID, f.Type)
	}
}

// parseNumber parses a numeric capture, tolerating currency symbols and
// thousands separators ("$1,200.50" -> 1200.5).
func parseNumber(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return n, nil
}
