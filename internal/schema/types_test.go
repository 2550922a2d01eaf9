package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FieldType
		wantErr bool
	}{
		{name: "text", input: "text", want: TypeText},
		{name: "number", input: "number", want: TypeNumber},
		{name: "multi select", input: "multi_select", want: TypeMultiSelect},
		{name: "case folded", input: "Currency", want: TypeCurrency},
		{name: "surrounding space", input: "  year  ", want: TypeYear},
		{name: "unknown", input: "integer", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldTypePredicates(t *testing.T) {
	assert.True(t, TypeNumber.Numeric())
	assert.True(t, TypeCurrency.Numeric())
	assert.True(t, TypeYear.Numeric())
	assert.False(t, TypeText.Numeric())
	assert.False(t, TypeBoolean.Numeric())

	assert.True(t, TypeSelect.Selectable())
	assert.True(t, TypeMultiSelect.Selectable())
	assert.False(t, TypeText.Selectable())
	assert.False(t, TypeNumber.Selectable())
}

func TestParseFieldRef(t *testing.T) {
	ref, err := ParseFieldRef("auto_insurance.driver_age")
	require.NoError(t, err)
	assert.Equal(t, "auto_insurance", ref.Product)
	assert.Equal(t, "driver_age", ref.Field)
	assert.Equal(t, "auto_insurance.driver_age", ref.String())

	for _, bad := range []string{"driver_age", ".driver_age", "auto_insurance.", ""} {
		_, err := ParseFieldRef(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 16, Max: 120}
	assert.True(t, r.Contains(16))
	assert.True(t, r.Contains(120))
	assert.True(t, r.Contains(35))
	assert.False(t, r.Contains(15.9))
	assert.False(t, r.Contains(121))
}

func TestPatternCapture(t *testing.T) {
	t.Run("capturing group", func(t *testing.T) {
		p, err := NewPattern(`(\d+)\s*years?\s*old`)
		require.NoError(t, err)

		got, ok := p.Capture("I am 35 years old")
		require.True(t, ok)
		assert.Equal(t, "35", got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		p, err := NewPattern(`model year`)
		require.NoError(t, err)

		got, ok := p.Capture("The Model Year is 2020")
		require.True(t, ok)
		assert.Equal(t, "Model Year", got)
	})

	t.Run("no group returns whole match", func(t *testing.T) {
		p, err := NewPattern(`\d{4}`)
		require.NoError(t, err)

		got, ok := p.Capture("built in 1995")
		require.True(t, ok)
		assert.Equal(t, "1995", got)
	})

	t.Run("no match", func(t *testing.T) {
		p, err := NewPattern(`(\d+)\s*years?\s*old`)
		require.NoError(t, err)

		_, ok := p.Capture("no age here")
		assert.False(t, ok)
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := NewPattern(`(\d+`)
		require.Error(t, err)
	})
}

func TestEnumLookups(t *testing.T) {
	e := &Enum{
		ID: "vehicle_use",
		Values: []EnumValue{
			{ID: "commute"},
			{ID: "pleasure"},
			{ID: "business"},
		},
	}

	assert.True(t, e.IsValid("commute"))
	assert.False(t, e.IsValid("racing"))
	assert.Equal(t, []string{"commute", "pleasure", "business"}, e.ValueIDs())
}

func TestFieldPatternCount(t *testing.T) {
	p1, err := NewPattern(`a`)
	require.NoError(t, err)
	p2, err := NewPattern(`b`)
	require.NoError(t, err)
	p3, err := NewPattern(`c`)
	require.NoError(t, err)

	f := &Field{
		ID:   "sample",
		Type: TypeText,
		Groups: []PatternGroup{
			{Name: "explicit", Confidence: 0.9, Patterns: []*Pattern{p1, p2}},
			{Name: "contextual", Confidence: 0.6, Patterns: []*Pattern{p3}},
		},
	}
	assert.Equal(t, 3, f.PatternCount())

	empty := &Field{ID: "empty", Type: TypeText}
	assert.Equal(t, 0, empty.PatternCount())
}

func TestProductFields(t *testing.T) {
	req := &Field{ID: "alpha", Type: TypeText, Required: true}
	opt := &Field{ID: "beta", Type: TypeText}
	p := &Product{ID: "sample", Required: []*Field{req}, Optional: []*Field{opt}}

	fields := p.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "alpha", fields[0].ID)
	assert.Equal(t, "beta", fields[1].ID)

	assert.Equal(t, req, p.Field("alpha"))
	assert.Equal(t, opt, p.Field("beta"))
	assert.Nil(t, p.Field("gamma"))
}
