// Package validate checks registry-wide consistency: every cross-reference
// resolves, the dependency graph is acyclic, context pattern sets do not
// conflict, and numeric ranges are sane.
//
// Validation is a pure read-only traversal. Issues are collected into a
// Result rather than raised one at a time, so a single run surfaces the
// complete defect list. The traversal order is sorted, which makes two runs
// over an unchanged registry produce identical issue lists.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quotelane/fieldreg/internal/registry"
	"github.com/quotelane/fieldreg/internal/schema"
)

// Kind classifies a validation issue.
type Kind string

// Error kinds.
const (
	KindDanglingEquivalence    Kind = "dangling_equivalence"
	KindDanglingDependency     Kind = "dangling_dependency"
	KindCyclicDependency       Kind = "cyclic_dependency"
	KindUnknownEnum            Kind = "unknown_enum"
	KindContextPatternConflict Kind = "context_pattern_conflict"
	KindInvalidRange           Kind = "invalid_range"
	KindDuplicateField         Kind = "duplicate_field"
)

// Warning kinds (non-blocking).
const (
	KindNoPatterns  Kind = "no_patterns"
	KindNoQuestions Kind = "no_questions"
)

// Issue is a single validation finding.
type Issue struct {
	Kind    Kind
	Product string
	Field   string
	Message string
}

func (i Issue) String() string {
	loc := i.Product
	if i.Field != "" {
		loc = i.Product + "." + i.Field
	}
	if loc != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Kind, loc, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Kind, i.Message)
}

// Result is the outcome of a validation run. Passed is true when there are
// no errors; warnings never block.
type Result struct {
	Passed   bool
	Errors   []Issue
	Warnings []Issue
}

// Run validates the registry. The registry is never mutated.
func Run(reg *registry.Registry) Result {
	v := &visitor{reg: reg}
	for _, productID := range reg.ProductIDs() {
		p, _ := reg.Product(productID)
		v.product(p)
	}
	v.cycles()

	return Result{
		Passed:   len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

type visitor struct {
	reg      *registry.Registry
	errors   []Issue
	warnings []Issue
}

func (v *visitor) errorf(kind Kind, product, field, format string, args ...any) {
	v.errors = append(v.errors, Issue{Kind: kind, Product: product, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *visitor) warnf(kind Kind, product, field, format string, args ...any) {
	v.warnings = append(v.warnings, Issue{Kind: kind, Product: product, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *visitor) product(p *schema.Product) {
	seen := make(map[string]struct{})
	for _, f := range p.Fields() {
		if _, dup := seen[f.ID]; dup {
			v.errorf(KindDuplicateField, p.ID, f.ID, "field declared more than once in product")
			continue
		}
		seen[f.ID] = struct{}{}
		v.field(p, f)
	}
}

func (v *visitor) field(p *schema.Product, f *schema.Field) {
	for _, ref := range f.Equivalents {
		if _, err := v.reg.Field(ref.Product, ref.Field); err != nil {
			v.errorf(KindDanglingEquivalence, p.ID, f.ID, "equivalent field %s does not exist", ref)
		}
	}

	if f.DependsOn != nil {
		if _, err := v.reg.Owner(f.DependsOn.Field); err != nil {
			v.errorf(KindDanglingDependency, p.ID, f.ID, "depends on unknown field %q", f.DependsOn.Field)
		}
	}

	if f.Type.Selectable() {
		if f.Enum == "" {
			v.errorf(KindUnknownEnum, p.ID, f.ID, "select field declares no enum")
		} else if _, err := v.reg.Enum(f.Enum); err != nil {
			v.errorf(KindUnknownEnum, p.ID, f.ID, "enum %q does not exist", f.Enum)
		}
	}

	if overlap := contextOverlap(f.Context); len(overlap) > 0 {
		v.errorf(KindContextPatternConflict, p.ID, f.ID,
			"cues appear in both positive and negative context sets: %s", strings.Join(overlap, ", "))
	}

	if f.Range != nil && f.Range.Min > f.Range.Max {
		v.errorf(KindInvalidRange, p.ID, f.ID, "valid_range min %v exceeds max %v", f.Range.Min, f.Range.Max)
	}

	if f.PatternCount() == 0 {
		v.warnf(KindNoPatterns, p.ID, f.ID, "field has no extraction patterns")
	}
	if len(f.Questions) == 0 {
		v.warnf(KindNoQuestions, p.ID, f.ID, "field has no question variations")
	}
}

// contextOverlap returns cues present in both sets, case-insensitively,
// in sorted order.
func contextOverlap(c schema.ContextPatterns) []string {
	pos := make(map[string]struct{}, len(c.Positive))
	for _, cue := range c.Positive {
		pos[strings.ToLower(cue)] = struct{}{}
	}
	var overlap []string
	for _, cue := range c.Negative {
		if _, ok := pos[strings.ToLower(cue)]; ok {
			overlap = append(overlap, strings.ToLower(cue))
		}
	}
	sort.Strings(overlap)
	return overlap
}

// cycles walks the dependency graph over (product, field) nodes and
// reports exactly one error per distinct cycle, naming every node on it.
func (v *visitor) cycles() {
	// Edges go from a field to the field it depends on. Dependencies
	// reference bare field IDs; the owning product disambiguates.
	nodes := make([]schema.FieldRef, 0)
	edge := make(map[schema.FieldRef]schema.FieldRef)
	for _, productID := range v.reg.ProductIDs() {
		p, _ := v.reg.Product(productID)
		for _, f := range p.Fields() {
			node := schema.FieldRef{Product: productID, Field: f.ID}
			nodes = append(nodes, node)
			if f.DependsOn == nil {
				continue
			}
			owner, err := v.reg.Owner(f.DependsOn.Field)
			if err != nil {
				continue // dangling, reported above
			}
			edge[node] = schema.FieldRef{Product: owner, Field: f.DependsOn.Field}
		}
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[schema.FieldRef]int, len(nodes))
	reported := make(map[string]struct{})

	for _, start := range nodes {
		if color[start] != white {
			continue
		}
		var stack []schema.FieldRef
		node := start
		for {
			color[node] = grey
			stack = append(stack, node)
			next, ok := edge[node]
			if !ok || color[next] == black {
				break
			}
			if color[next] == grey {
				cycle := extractCycle(stack, next)
				key := cycleKey(cycle)
				if _, dup := reported[key]; !dup {
					reported[key] = struct{}{}
					v.errorf(KindCyclicDependency, cycle[0].Product, cycle[0].Field,
						"dependency cycle: %s", key)
				}
				break
			}
			node = next
		}
		for _, n := range stack {
			color[n] = black
		}
	}
}

// extractCycle returns the portion of the walk stack from the re-entered
// node onward.
func extractCycle(stack []schema.FieldRef, entry schema.FieldRef) []schema.FieldRef {
	for i, n := range stack {
		if n == entry {
			return stack[i:]
		}
	}
	return stack
}

// cycleKey renders a cycle in a canonical rotation so the same cycle found
// from different start nodes dedupes and reports identically across runs.
func cycleKey(cycle []schema.FieldRef) string {
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i].String() < cycle[min].String() {
			min = i
		}
	}
	parts := make([]string, 0, len(cycle)+1)
	for i := 0; i < len(cycle); i++ {
		parts = append(parts, cycle[(min+i)%len(cycle)].String())
	}
	parts = append(parts, cycle[min].String())
	return strings.Join(parts, " -> ")
}
