package registry

import (
	"fmt"
	"sort"

	"github.com/quotelane/fieldreg/internal/schema"
)

// Registry is the aggregate root over all loaded definitions. It owns every
// Enum, Product, and Field instance; consumers hold read references only.
type Registry struct {
	enums    map[string]*schema.Enum
	products map[string]*schema.Product

	// fieldIndex maps a field ID to its owning product. Field IDs are
	// unique registry-wide, which keeps equivalence queries by bare field
	// ID well defined.
	fieldIndex map[string]string

	// equivalents is the precomputed symmetric closure of the declared
	// equivalence references, keyed by field ID.
	equivalents map[string][]schema.FieldRef

	// AI-mode and channel configuration blocks, stored verbatim.
	aiModes  map[string]map[string]any
	channels map[string]map[string]any
}

// Enum returns the enum with the given ID.
func (r *Registry) Enum(id string) (*schema.Enum, error) {
	e, ok := r.enums[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEnumNotFound, id)
	}
	return e, nil
}

// Product returns the product with the given ID.
func (r *Registry) Product(id string) (*schema.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	return p, nil
}

// Field returns a field definition from a product.
func (r *Registry) Field(productID, fieldID string) (*schema.Field, error) {
	p, err := r.Product(productID)
	if err != nil {
		return nil, err
	}
	f := p.Field(fieldID)
	if f == nil {
		return nil, fmt.Errorf("%w: %q in product %q", ErrFieldNotFound, fieldID, productID)
	}
	return f, nil
}

// EnumIDs returns all enum IDs in sorted order.
func (r *Registry) EnumIDs() []string {
	ids := make([]string, 0, len(r.enums))
	for id := range r.enums {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProductIDs returns all product IDs in sorted order.
func (r *Registry) ProductIDs() []string {
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FieldIDs returns every field ID across all products, sorted.
func (r *Registry) FieldIDs() []string {
	ids := make([]string, 0, len(r.fieldIndex))
	for id := range r.fieldIndex {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Owner returns the ID of the product that declares the given field, or
// ErrFieldNotFound.
func (r *Registry) Owner(fieldID string) (string, error) {
	p, ok := r.fieldIndex[fieldID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
	}
	return p, nil
}

// EquivalentFields resolves the equivalence class of a field ID. The
// relation is symmetric even when declared one-directionally: a field is
// included if its equivalence list names the query, or the query's list
// names it. The queried field itself is part of the class. Bidirectional
// declarations are an idempotent union, never duplicates. Results are in
// deterministic (sorted) order.
func (r *Registry) EquivalentFields(fieldID string) []schema.FieldRef {
	refs := r.equivalents[fieldID]
	out := make([]schema.FieldRef, len(refs))
	copy(out, refs)
	return out
}

// AIMode returns an AI-mode configuration block verbatim.
func (r *Registry) AIMode(id string) (map[string]any, bool) {
	m, ok := r.aiModes[id]
	return m, ok
}

// Channel returns a channel configuration block verbatim.
func (r *Registry) Channel(id string) (map[string]any, bool) {
	c, ok := r.channels[id]
	return c, ok
}

// AIModeIDs returns all AI-mode IDs in sorted order.
func (r *Registry) AIModeIDs() []string {
	ids := make([]string, 0, len(r.aiModes))
	for id := range r.aiModes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ChannelIDs returns all channel IDs in sorted order.
func (r *Registry) ChannelIDs() []string {
	ids := make([]string, 0, len(r.channels))
	for id := range r.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Statistics is a point-in-time count snapshot of the registry.
type Statistics struct {
	Enums         int `json:"enums"`
	EnumValues    int `json:"enum_values"`
	Products      int `json:"products"`
	Fields        int `json:"fields"`
	Patterns      int `json:"patterns"`
	SelectOptions int `json:"select_options"`
	AIModes       int `json:"ai_modes"`
	Channels      int `json:"channels"`
}

// Statistics returns counts across the registry. Pure snapshot, no side
// effects.
func (r *Registry) Statistics() Statistics {
	s := Statistics{
		Enums:    len(r.enums),
		Products: len(r.products),
		AIModes:  len(r.aiModes),
		Channels: len(r.channels),
	}
	for _, e := range r.enums {
		s.EnumValues += len(e.Values)
	}
	for _, p := range r.products {
		for _, f := range p.Fields() {
			s.Fields++
			s.Patterns += f.PatternCount()
			if f.Type.Selectable() {
				if e, ok := r.enums[f.Enum]; ok {
					s.SelectOptions += len(e.Values)
				}
			}
		}
	}
	return s
}

// buildEquivalents computes the symmetric closure of the declared
// equivalence references.
func (r *Registry) buildEquivalents() {
	sets := make(map[string]map[schema.FieldRef]struct{})
	add := func(fieldID string, ref schema.FieldRef) {
		if sets[fieldID] == nil {
			sets[fieldID] = make(map[schema.FieldRef]struct{})
		}
		sets[fieldID][ref] = struct{}{}
	}

	for productID, p := range r.products {
		for _, f := range p.Fields() {
			self := schema.FieldRef{Product: productID, Field: f.ID}
			add(f.ID, self)
			for _, ref := range f.Equivalents {
				add(f.ID, ref)
				add(ref.Field, self)
			}
		}
	}

	r.equivalents = make(map[string][]schema.FieldRef, len(sets))
	for fieldID, set := range sets {
		refs := make([]schema.FieldRef, 0, len(set))
		for ref := range set {
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool {
			if refs[i].Product != refs[j].Product {
				return refs[i].Product < refs[j].Product
			}
			return refs[i].Field < refs[j].Field
		})
		r.equivalents[fieldID] = refs
	}
}
