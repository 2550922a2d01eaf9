package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/quotelane/fieldreg/internal/schema"
)

// Source is a single declarative document.
type Source struct {
	Name string
	Data []byte
}

// Options configures a registry load.
type Options struct {
	// Dir is scanned for *.yaml / *.yml files, walked in lexical order.
	Dir string
	// Sources are parsed after directory files, in the order given.
	Sources []Source
	// Exclude holds glob patterns matched against file basenames.
	Exclude []string
}

// Load parses and merges the declarative sources into a Registry. Any
// malformed node or identifier collision aborts the load with a *LoadError;
// a registry is never partially constructed.
func Load(opts Options) (*Registry, error) {
	sources, err := collectSources(opts)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		enums:      make(map[string]*schema.Enum),
		products:   make(map[string]*schema.Product),
		fieldIndex: make(map[string]string),
		aiModes:    make(map[string]map[string]any),
		channels:   make(map[string]map[string]any),
	}

	for _, src := range sources {
		if err := mergeSource(r, src); err != nil {
			return nil, err
		}
	}

	r.buildEquivalents()
	return r, nil
}

// New builds a registry directly from definitions, bypassing the YAML
// loader. Intended for tests that need isolated or deliberately
// inconsistent instances; Load is the normal construction path.
func New(enums []*schema.Enum, products []*schema.Product) *Registry {
	r := &Registry{
		enums:      make(map[string]*schema.Enum, len(enums)),
		products:   make(map[string]*schema.Product, len(products)),
		fieldIndex: make(map[string]string),
		aiModes:    make(map[string]map[string]any),
		channels:   make(map[string]map[string]any),
	}
	for _, e := range enums {
		r.enums[e.ID] = e
	}
	for _, p := range products {
		r.products[p.ID] = p
		for _, f := range p.Fields() {
			if _, taken := r.fieldIndex[f.ID]; !taken {
				r.fieldIndex[f.ID] = p.ID
			}
		}
	}
	r.buildEquivalents()
	return r
}

func collectSources(opts Options) ([]Source, error) {
	var sources []Source
	if opts.Dir != "" {
		err := filepath.WalkDir(opts.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".yaml" && ext != ".yml" {
				return nil
			}
			for _, pattern := range opts.Exclude {
				if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
					return nil
				}
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sources = append(sources, Source{Name: path, Data: data})
			return nil
		})
		if err != nil {
			return nil, &LoadError{Source: opts.Dir, Msg: "scanning registry directory", Err: err}
		}
	}
	sources = append(sources, opts.Sources...)
	return sources, nil
}

// Raw document shapes. These mirror the declarative YAML format; every
// node is checked during conversion, not trusted.

type rawDocument struct {
	Enums    map[string]rawEnum        `koanf:"enums"`
	Products map[string]rawProduct     `koanf:"products"`
	AIModes  map[string]map[string]any `koanf:"ai_modes"`
	Channels map[string]map[string]any `koanf:"channels"`
}

type rawEnum struct {
	DisplayName string         `koanf:"display_name"`
	Description string         `koanf:"description"`
	Values      []rawEnumValue `koanf:"values"`
}

type rawEnumValue struct {
	ID          string   `koanf:"id"`
	Display     string   `koanf:"display"`
	Description string   `koanf:"description"`
	Indicators  []string `koanf:"indicators"`
}

type rawProduct struct {
	DisplayName    string     `koanf:"display_name"`
	Description    string     `koanf:"description"`
	Category       string     `koanf:"category"`
	RequiredFields []rawField `koanf:"required_fields"`
	OptionalFields []rawField `koanf:"optional_fields"`
}

type rawField struct {
	FieldID            string            `koanf:"field_id"`
	DisplayName        string            `koanf:"display_name"`
	Description        string            `koanf:"description"`
	FieldType          string            `koanf:"field_type"`
	Priority           int               `koanf:"priority"`
	Required           bool              `koanf:"required"`
	Enum               string            `koanf:"enum"`
	ExtractionPatterns []rawPatternGroup `koanf:"extraction_patterns"`
	ContextPatterns    rawContext        `koanf:"context_patterns"`
	ValidRange         []float64         `koanf:"valid_range"`
	EquivalentFields   []string          `koanf:"equivalent_fields"`
	DependsOn          *rawDependency    `koanf:"depends_on"`
	QuestionVariations []string          `koanf:"question_variations"`
}

type rawPatternGroup struct {
	Group      string   `koanf:"group"`
	Confidence float64  `koanf:"confidence"`
	Patterns   []string `koanf:"patterns"`
}

type rawContext struct {
	Positive []string `koanf:"positive"`
	Negative []string `koanf:"negative"`
}

type rawDependency struct {
	Field  string `koanf:"field"`
	Equals string `koanf:"equals"`
}

func mergeSource(r *Registry, src Source) error {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(src.Data), yaml.Parser()); err != nil {
		return &LoadError{Source: src.Name, Msg: "parsing YAML", Err: err}
	}

	var doc rawDocument
	if err := k.Unmarshal("", &doc); err != nil {
		return &LoadError{Source: src.Name, Msg: "decoding document", Err: err}
	}

	for id, re := range doc.Enums {
		if _, taken := r.enums[id]; taken {
			return loadErrorf(src.Name, "duplicate enum %q", id)
		}
		e, err := buildEnum(src.Name, id, re)
		if err != nil {
			return err
		}
		r.enums[id] = e
	}

	for id, rp := range doc.Products {
		if _, taken := r.products[id]; taken {
			return loadErrorf(src.Name, "duplicate product %q", id)
		}
		p, err := buildProduct(r, src.Name, id, rp)
		if err != nil {
			return err
		}
		r.products[id] = p
	}

	for id, block := range doc.AIModes {
		if _, taken := r.aiModes[id]; taken {
			return loadErrorf(src.Name, "duplicate ai_mode %q", id)
		}
		r.aiModes[id] = block
	}

	for id, block := range doc.Channels {
		if _, taken := r.channels[id]; taken {
			return loadErrorf(src.Name, "duplicate channel %q", id)
		}
		r.channels[id] = block
	}

	return nil
}

func buildEnum(source, id string, re rawEnum) (*schema.Enum, error) {
	e := &schema.Enum{
		ID:          id,
		DisplayName: re.DisplayName,
		Description: re.Description,
	}
	seen := make(map[string]struct{}, len(re.Values))
	for _, rv := range re.Values {
		if rv.ID == "" {
			return nil, loadErrorf(source, "enum %q has a value without an id", id)
		}
		if _, dup := seen[rv.ID]; dup {
			return nil, loadErrorf(source, "enum %q has duplicate value %q", id, rv.ID)
		}
		seen[rv.ID] = struct{}{}
		e.Values = append(e.Values, schema.EnumValue{
			ID:          rv.ID,
			Display:     rv.Display,
			Description: rv.Description,
			Indicators:  rv.Indicators,
		})
	}
	return e, nil
}

func buildProduct(r *Registry, source, id string, rp rawProduct) (*schema.Product, error) {
	p := &schema.Product{
		ID:          id,
		DisplayName: rp.DisplayName,
		Description: rp.Description,
		Category:    rp.Category,
	}
	if p.DisplayName == "" {
		p.DisplayName = id
	}

	seen := make(map[string]struct{})
	addField := func(rf rawField, required bool) (*schema.Field, error) {
		f, err := buildField(source, id, rf)
		if err != nil {
			return nil, err
		}
		if required {
			f.Required = true
		}
		if _, dup := seen[f.ID]; dup {
			return nil, loadErrorf(source, "duplicate field %q in product %q", f.ID, id)
		}
		seen[f.ID] = struct{}{}
		if owner, taken := r.fieldIndex[f.ID]; taken {
			return nil, loadErrorf(source, "field %q in product %q already declared by product %q", f.ID, id, owner)
		}
		r.fieldIndex[f.ID] = id
		return f, nil
	}

	for _, rf := range rp.RequiredFields {
		f, err := addField(rf, true)
		if err != nil {
			return nil, err
		}
		p.Required = append(p.Required, f)
	}
	for _, rf := range rp.OptionalFields {
		f, err := addField(rf, rf.Required)
		if err != nil {
			return nil, err
		}
		p.Optional = append(p.Optional, f)
	}
	return p, nil
}

func buildField(source, productID string, rf rawField) (*schema.Field, error) {
	if rf.FieldID == "" {
		return nil, loadErrorf(source, "product %q has a field without field_id", productID)
	}
	where := fmt.Sprintf("%s.%s", productID, rf.FieldID)

	if rf.FieldType == "" {
		return nil, loadErrorf(source, "field %s is missing field_type", where)
	}
	ft, err := schema.ParseFieldType(rf.FieldType)
	if err != nil {
		return nil, &LoadError{Source: source, Msg: "field " + where, Err: err}
	}

	priority := rf.Priority
	if priority == 0 {
		priority = schema.PriorityQualifier
	}
	if priority < schema.PriorityBlocker || priority > schema.PriorityOptional {
		return nil, loadErrorf(source, "field %s has priority %d outside 1..4", where, rf.Priority)
	}

	f := &schema.Field{
		ID:          rf.FieldID,
		DisplayName: rf.DisplayName,
		Description: rf.Description,
		Type:        ft,
		Priority:    priority,
		Required:    rf.Required,
		Enum:        rf.Enum,
		Context: schema.ContextPatterns{
			Positive: rf.ContextPatterns.Positive,
			Negative: rf.ContextPatterns.Negative,
		},
		Questions: rf.QuestionVariations,
	}
	if f.DisplayName == "" {
		f.DisplayName = rf.FieldID
	}

	for _, rg := range rf.ExtractionPatterns {
		if rg.Confidence < 0 || rg.Confidence > 1 {
			return nil, loadErrorf(source, "field %s group %q has confidence %v outside [0,1]", where, rg.Group, rg.Confidence)
		}
		group := schema.PatternGroup{Name: rg.Group, Confidence: rg.Confidence}
		for _, ps := range rg.Patterns {
			pat, err := schema.NewPattern(ps)
			if err != nil {
				return nil, &LoadError{Source: source, Msg: "field " + where, Err: err}
			}
			group.Patterns = append(group.Patterns, pat)
		}
		f.Groups = append(f.Groups, group)
	}

	switch len(rf.ValidRange) {
	case 0:
	case 2:
		f.Range = &schema.Range{Min: rf.ValidRange[0], Max: rf.ValidRange[1]}
	default:
		return nil, loadErrorf(source, "field %s valid_range must be [min, max]", where)
	}

	for _, refStr := range rf.EquivalentFields {
		ref, err := schema.ParseFieldRef(refStr)
		if err != nil {
			return nil, &LoadError{Source: source, Msg: "field " + where, Err: err}
		}
		f.Equivalents = append(f.Equivalents, ref)
	}

	if rf.DependsOn != nil {
		if rf.DependsOn.Field == "" {
			return nil, loadErrorf(source, "field %s depends_on is missing field", where)
		}
		f.DependsOn = &schema.Dependency{Field: rf.DependsOn.Field, Equals: rf.DependsOn.Equals}
	}

	return f, nil
}
