package extract

import (
	"errors"
	"strings"

	"github.com/quotelane/fieldreg/internal/schema"
)

// ErrUntypedField reports a field definition with no declared type. The
// loader never produces one; this guards callers that construct fields by
// hand and bypass validation.
var ErrUntypedField = errors.New("field has no declared type")

// EnumSource resolves enum definitions for select-typed fields. The
// registry satisfies this.
type EnumSource interface {
	Enum(id string) (*schema.Enum, error)
}

// Result is an accepted extraction.
type Result struct {
	Value      schema.Value
	Confidence float64
	// Group and Pattern identify the rule that produced the match, for
	// diagnostics and reports.
	Group   string
	Pattern string
	// InContext reports whether any positive context cue was present.
	// It never affects Confidence; stricter consumers may filter on it.
	InContext bool
}

// Engine extracts typed values for registry fields.
type Engine struct {
	enums EnumSource
}

// New creates an engine reading enum definitions from src.
func New(src EnumSource) *Engine {
	return &Engine{enums: src}
}

// Extract evaluates the field's patterns against text. ok is false when no
// pattern yields an accepted match; that is a normal outcome, not an error.
// The only error condition is a malformed field definition.
func (e *Engine) Extract(field *schema.Field, text string) (Result, bool, error) {
	if field.Type == "" {
		return Result{}, false, ErrUntypedField
	}

	lower := strings.ToLower(text)
	for _, cue := range field.Context.Negative {
		if cue != "" && strings.Contains(lower, strings.ToLower(cue)) {
			return Result{}, false, nil
		}
	}

	var enum *schema.Enum
	if field.Type.Selectable() {
		// Missing enums reject every capture during coercion; the
		// validator reports them properly.
		enum, _ = e.enums.Enum(field.Enum)
	}

	inContext := hasPositiveCue(field, lower)

	for _, group := range field.Groups {
		for _, pat := range group.Patterns {
			raw, matched := pat.Capture(text)
			if !matched {
				continue
			}
			value, err := schema.Coerce(field, enum, raw)
			if err != nil {
				continue
			}
			if field.Range != nil && field.Type.Numeric() && !field.Range.Contains(value.Number) {
				continue
			}
			return Result{
				Value:      value,
				Confidence: group.Confidence,
				Group:      group.Name,
				Pattern:    pat.Source,
				InContext:  inContext,
			}, true, nil
		}
	}

	return Result{}, false, nil
}

func hasPositiveCue(field *schema.Field, lower string) bool {
	for _, cue := range field.Context.Positive {
		if cue != "" && strings.Contains(lower, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}
