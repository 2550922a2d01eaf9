package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldType identifies the declared type of a field.
type FieldType string

// Supported field types.
const (
	TypeText        FieldType = "text"
	TypeNumber      FieldType = "number"
	TypeCurrency    FieldType = "currency"
	TypeDate        FieldType = "date"
	TypeYear        FieldType = "year"
	TypeBoolean     FieldType = "boolean"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multi_select"
	TypeAddress     FieldType = "address"
	TypePhone       FieldType = "phone"
	TypeEmail       FieldType = "email"
)

// fieldTypes is the closed set accepted by ParseFieldType.
var fieldTypes = map[FieldType]struct{}{
	TypeText: {}, TypeNumber: {}, TypeCurrency: {}, TypeDate: {},
	TypeYear: {}, TypeBoolean: {}, TypeSelect: {}, TypeMultiSelect: {},
	TypeAddress: {}, TypePhone: {}, TypeEmail: {},
}

// ParseFieldType converts a declared type string into a FieldType.
// Unknown strings are rejected; the loader surfaces this as a load error.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldTypes[t]; !ok {
		return "", fmt.Errorf("unknown field type %q", s)
	}
	return t, nil
}

// Numeric reports whether values of this type coerce to a number.
func (t FieldType) Numeric() bool {
	return t == TypeNumber || t == TypeCurrency || t == TypeYear
}

// Selectable reports whether this type draws its values from an enum.
func (t FieldType) Selectable() bool {
	return t == TypeSelect || t == TypeMultiSelect
}

// Field priority tiers. Lower is more important.
const (
	PriorityBlocker    = 1
	PriorityQualifier  = 2
	PriorityEnrichment = 3
	PriorityOptional   = 4
)

// EnumValue is a single member of an enum.
type EnumValue struct {
	ID          string
	Display     string
	Description string
	Indicators  []string
}

// Enum is an ordered set of value IDs with optional display metadata.
// Value IDs are unique within an enum; the loader enforces this.
type Enum struct {
	ID          string
	DisplayName string
	Description string
	Values      []EnumValue
}

// IsValid reports whether id is a member of the enum.
func (e *Enum) IsValid(id string) bool {
	for _, v := range e.Values {
		if v.ID == id {
			return true
		}
	}
	return false
}

// ValueIDs returns the value IDs in declaration order.
func (e *Enum) ValueIDs() []string {
	ids := make([]string, len(e.Values))
	for i, v := range e.Values {
		ids[i] = v.ID
	}
	return ids
}

// FieldRef names a field in a specific product.
type FieldRef struct {
	Product string
	Field   string
}

// String returns the dotted product.field form used in declarations.
func (r FieldRef) String() string { return r.Product + "." + r.Field }

// ParseFieldRef parses a dotted product.field reference.
func ParseFieldRef(s string) (FieldRef, error) {
	product, field, ok := strings.Cut(s, ".")
	if !ok || product == "" || field == "" {
		return FieldRef{}, fmt.Errorf("invalid field reference %q: want product.field", s)
	}
	return FieldRef{Product: product, Field: field}, nil
}

// Range bounds a numeric or year field. Values outside the range reject a
// pattern match during extraction rather than producing a data error.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, inclusive.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// ContextPatterns are auxiliary cues that gate extraction. Negative cues
// suppress a match outright; positive cues never change the confidence of
// a match, they exist for stricter downstream consumers.
type ContextPatterns struct {
	Positive []string
	Negative []string
}

// Dependency gates whether a field should be asked: the named field must
// hold the given value first.
type Dependency struct {
	Field  string
	Equals string
}

// Pattern is a single compiled match rule. Matching is case-insensitive;
// the value is taken from the first capturing group, or the whole match
// when the pattern declares no group.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// NewPattern compiles a pattern source. The loader calls this once per
// declaration so extraction never compiles at match time.
func NewPattern(source string) (*Pattern, error) {
	re, err := regexp.Compile("(?i)" + source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}
	return &Pattern{Source: source, re: re}, nil
}

// Capture returns the captured value and whether the pattern matched.
func (p *Pattern) Capture(text string) (string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// PatternGroup is a named, confidence-tagged set of patterns for one field.
// Groups are tried in declaration order and the first accepted match wins;
// the confidence is the group's declared score, never adjusted.
type PatternGroup struct {
	Name       string
	Confidence float64
	Patterns   []*Pattern
}

// Field is a single named datum a product expects to capture.
type Field struct {
	ID          string
	DisplayName string
	Description string
	Type        FieldType
	Priority    int
	Required    bool

	Groups  []PatternGroup
	Context ContextPatterns
	Range   *Range

	// Enum names the linked enum for select and multi_select fields.
	Enum string

	Equivalents []FieldRef
	DependsOn   *Dependency

	// Questions are conversational phrasings, metadata only; extraction
	// never consults them.
	Questions []string
}

// PatternCount returns the number of declared patterns across all groups.
func (f *Field) PatternCount() int {
	n := 0
	for _, g := range f.Groups {
		n += len(g.Patterns)
	}
	return n
}

// Product is an ordered set of fields partitioned into required and
// optional. A field ID belongs to exactly one product registry-wide.
type Product struct {
	ID          string
	DisplayName string
	Description string
	Category    string

	Required []*Field
	Optional []*Field
}

// Fields returns required then optional fields in declaration order.
func (p *Product) Fields() []*Field {
	out := make([]*Field, 0, len(p.Required)+len(p.Optional))
	out = append(out, p.Required...)
	out = append(out, p.Optional...)
	return out
}

// Field returns the field with the given ID, or nil.
func (p *Product) Field(id string) *Field {
	for _, f := range p.Fields() {
		if f.ID == id {
			return f
		}
	}
	return nil
}
