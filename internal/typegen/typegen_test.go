package typegen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelane/fieldreg/internal/registry"
	"github.com/quotelane/fieldreg/internal/schema"
)

func sampleRegistry() *registry.Registry {
	enum := &schema.Enum{
		ID: "property_type",
		Values: []schema.EnumValue{
			{ID: "single_family"},
			{ID: "condo"},
		},
	}
	product := &schema.Product{
		ID:          "home_insurance",
		DisplayName: "Home Insurance",
		Required: []*schema.Field{
			{ID: "homeowner_name", DisplayName: "Homeowner Name", Type: schema.TypeText, Required: true},
			{ID: "year_built", DisplayName: "Year Built", Type: schema.TypeYear, Required: true},
			{ID: "property_type", DisplayName: "Property Type", Type: schema.TypeSelect, Enum: "property_type", Required: true},
		},
		Optional: []*schema.Field{
			{ID: "has_pool", DisplayName: "Has Pool", Type: schema.TypeBoolean},
			{ID: "mailing_address", DisplayName: "Mailing Address", Type: schema.TypeAddress},
		},
	}
	return registry.New([]*schema.Enum{enum}, []*schema.Product{product})
}

func TestGenerateCommonTypes(t *testing.T) {
	out := Generate(sampleRegistry())

	assert.Contains(t, out, "export interface Address {")
	assert.Contains(t, out, "postalCode: string;")
	assert.Contains(t, out, "export type FieldSource = 'extracted' | 'user_provided' | 'inferred' | 'default';")
	assert.Contains(t, out, "export interface FieldValue<T = unknown> {")
	assert.Contains(t, out, "export type Priority = 1 | 2 | 3 | 4;")
	assert.Contains(t, out, "DO NOT EDIT MANUALLY")
}

func TestGenerateEnums(t *testing.T) {
	out := Generate(sampleRegistry())

	assert.Contains(t, out, "export type PropertyType = 'single_family' | 'condo';")
	assert.Contains(t, out, "export const PropertyTypeValues = [\n  'single_family',\n  'condo',\n] as const;")
}

func TestGenerateProducts(t *testing.T) {
	out := Generate(sampleRegistry())

	assert.Contains(t, out, "export interface HomeInsuranceFields {")
	assert.Contains(t, out, "/** Fields for Home Insurance */")

	// Required members are bare, optional members carry the marker.
	assert.Contains(t, out, "homeownerName: string;")
	assert.Contains(t, out, "yearBuilt: number;")
	assert.Contains(t, out, "propertyType: 'single_family' | 'condo';")
	assert.Contains(t, out, "hasPool?: boolean;")
	assert.Contains(t, out, "mailingAddress?: Address;")

	assert.Contains(t, out, "export type ProductFields = HomeInsuranceFields;")
}

func TestGenerateDeterministic(t *testing.T) {
	first := Generate(sampleRegistry())
	second := Generate(sampleRegistry())
	assert.Equal(t, first, second)

	// No clock output anywhere.
	assert.NotContains(t, first, "Generated at")
}

func TestGenerateMissingEnumFallsBack(t *testing.T) {
	product := &schema.Product{
		ID: "sample",
		Required: []*schema.Field{
			{ID: "pick_one", DisplayName: "Pick One", Type: schema.TypeSelect, Enum: "ghost", Required: true},
			{ID: "pick_many", DisplayName: "Pick Many", Type: schema.TypeMultiSelect, Enum: "ghost", Required: true},
		},
	}
	out := Generate(registry.New(nil, []*schema.Product{product}))

	assert.Contains(t, out, "pickOne: string;")
	assert.Contains(t, out, "pickMany: string[];")
}

func TestGenerateMultiSelectUnion(t *testing.T) {
	enum := &schema.Enum{ID: "coverage_level", Values: []schema.EnumValue{{ID: "basic"}, {ID: "full"}}}
	product := &schema.Product{
		ID: "sample",
		Required: []*schema.Field{
			{ID: "coverages", DisplayName: "Coverages", Type: schema.TypeMultiSelect, Enum: "coverage_level", Required: true},
		},
	}
	out := Generate(registry.New([]*schema.Enum{enum}, []*schema.Product{product}))

	assert.Contains(t, out, "coverages: ('basic' | 'full')[];")
}

func TestGenerateShippedRegistry(t *testing.T) {
	reg, err := registry.Load(registry.Options{Dir: filepath.Join("..", "..", "registry")})
	require.NoError(t, err)

	out := Generate(reg)
	assert.Contains(t, out, "export interface AutoInsuranceFields {")
	assert.Contains(t, out, "export interface HomeInsuranceFields {")
	assert.Contains(t, out, "export interface RealEstateBuyerFields {")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out),
		"export type ProductFields = AutoInsuranceFields | HomeInsuranceFields | RealEstateBuyerFields;"))
}

func TestNameCasing(t *testing.T) {
	assert.Equal(t, "AutoInsurance", pascalCase("auto_insurance"))
	assert.Equal(t, "yearBuilt", camelCase("year_built"))
	assert.Equal(t, "age", camelCase("age"))
	assert.Equal(t, "", camelCase(""))
}
