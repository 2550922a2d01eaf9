package validate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelane/fieldreg/internal/registry"
	"github.com/quotelane/fieldreg/internal/schema"
)

func mustPattern(t *testing.T, source string) *schema.Pattern {
	t.Helper()
	p, err := schema.NewPattern(source)
	require.NoError(t, err)
	return p
}

// field builds a minimal well-formed field that triggers no warnings.
func field(t *testing.T, id string) *schema.Field {
	t.Helper()
	return &schema.Field{
		ID:   id,
		Type: schema.TypeText,
		Groups: []schema.PatternGroup{
			{Name: "explicit", Confidence: 0.9, Patterns: []*schema.Pattern{mustPattern(t, id)}},
		},
		Questions: []string{"What is it?"},
	}
}

func kinds(issues []Issue) []Kind {
	out := make([]Kind, len(issues))
	for i, is := range issues {
		out[i] = is.Kind
	}
	return out
}

func TestRunCleanRegistry(t *testing.T) {
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{field(t, "alpha")}},
	})

	res := Run(reg)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestRunDanglingEquivalence(t *testing.T) {
	f := field(t, "alpha")
	f.Equivalents = []schema.FieldRef{{Product: "ghost", Field: "beta"}}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{f}},
	})

	res := Run(reg)
	assert.False(t, res.Passed)
	assert.Equal(t, []Kind{KindDanglingEquivalence}, kinds(res.Errors))
}

func TestRunDanglingDependency(t *testing.T) {
	f := field(t, "alpha")
	f.DependsOn = &schema.Dependency{Field: "ghost", Equals: "true"}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{f}},
	})

	res := Run(reg)
	assert.False(t, res.Passed)
	assert.Equal(t, []Kind{KindDanglingDependency}, kinds(res.Errors))
}

func TestRunCyclicDependency(t *testing.T) {
	a := field(t, "alpha")
	b := field(t, "beta")
	a.DependsOn = &schema.Dependency{Field: "beta", Equals: "x"}
	b.DependsOn = &schema.Dependency{Field: "alpha", Equals: "y"}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{a, b}},
	})

	res := Run(reg)
	assert.False(t, res.Passed)

	// One error per cycle, not one per node on it.
	require.Equal(t, []Kind{KindCyclicDependency}, kinds(res.Errors))
	assert.Contains(t, res.Errors[0].Message, "p.alpha -> p.beta -> p.alpha")
}

func TestRunSelfDependencyCycle(t *testing.T) {
	a := field(t, "alpha")
	a.DependsOn = &schema.Dependency{Field: "alpha", Equals: "x"}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{a}},
	})

	res := Run(reg)
	require.Equal(t, []Kind{KindCyclicDependency}, kinds(res.Errors))
}

func TestRunUnknownEnum(t *testing.T) {
	t.Run("enum missing", func(t *testing.T) {
		f := field(t, "alpha")
		f.Type = schema.TypeSelect
		f.Enum = "ghost"
		reg := registry.New(nil, []*schema.Product{
			{ID: "p", Required: []*schema.Field{f}},
		})

		res := Run(reg)
		assert.Equal(t, []Kind{KindUnknownEnum}, kinds(res.Errors))
	})

	t.Run("enum undeclared", func(t *testing.T) {
		f := field(t, "alpha")
		f.Type = schema.TypeMultiSelect
		reg := registry.New(nil, []*schema.Product{
			{ID: "p", Required: []*schema.Field{f}},
		})

		res := Run(reg)
		assert.Equal(t, []Kind{KindUnknownEnum}, kinds(res.Errors))
	})
}

func TestRunContextPatternConflict(t *testing.T) {
	f := field(t, "alpha")
	f.Context = schema.ContextPatterns{
		Positive: []string{"House", "garden"},
		Negative: []string{"car", "house"},
	}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{f}},
	})

	res := Run(reg)
	require.Equal(t, []Kind{KindContextPatternConflict}, kinds(res.Errors))
	assert.Contains(t, res.Errors[0].Message, "house")
}

func TestRunInvalidRange(t *testing.T) {
	f := field(t, "alpha")
	f.Type = schema.TypeNumber
	f.Range = &schema.Range{Min: 100, Max: 10}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{f}},
	})

	res := Run(reg)
	assert.Equal(t, []Kind{KindInvalidRange}, kinds(res.Errors))
}

func TestRunDuplicateField(t *testing.T) {
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{field(t, "alpha"), field(t, "alpha")}},
	})

	res := Run(reg)
	assert.Equal(t, []Kind{KindDuplicateField}, kinds(res.Errors))
}

func TestRunWarnings(t *testing.T) {
	f := &schema.Field{ID: "alpha", Type: schema.TypeText}
	reg := registry.New(nil, []*schema.Product{
		{ID: "p", Required: []*schema.Field{f}},
	})

	res := Run(reg)
	assert.True(t, res.Passed, "warnings never block")
	assert.ElementsMatch(t, []Kind{KindNoPatterns, KindNoQuestions}, kinds(res.Warnings))
}

func TestRunDeterministic(t *testing.T) {
	a := field(t, "alpha")
	a.Equivalents = []schema.FieldRef{{Product: "ghost", Field: "x"}}
	b := field(t, "beta")
	b.DependsOn = &schema.Dependency{Field: "ghost"}
	c := field(t, "gamma")
	c.Range = &schema.Range{Min: 5, Max: 1}
	c.Type = schema.TypeNumber

	build := func() *registry.Registry {
		return registry.New(nil, []*schema.Product{
			{ID: "p2", Required: []*schema.Field{c}},
			{ID: "p1", Required: []*schema.Field{a, b}},
		})
	}

	first := Run(build())
	second := Run(build())
	assert.Equal(t, first, second)
}

func TestIssueString(t *testing.T) {
	i := Issue{Kind: KindInvalidRange, Product: "p", Field: "f", Message: "bad"}
	assert.Equal(t, "[invalid_range] p.f: bad", i.String())

	i = Issue{Kind: KindCyclicDependency, Message: "cycle"}
	assert.Equal(t, "[cyclic_dependency] cycle", i.String())
}

func TestRunShippedRegistry(t *testing.T) {
	reg, err := registry.Load(registry.Options{Dir: filepath.Join("..", "..", "registry")})
	require.NoError(t, err)

	res := Run(reg)
	for _, issue := range res.Errors {
		t.Errorf("unexpected error: %s", issue)
	}
	assert.True(t, res.Passed)
}
