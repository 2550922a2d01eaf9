// Package typegen projects the schema model into TypeScript type
// declarations for frontend consumption.
//
// Generate is a pure function of the registry: all iteration is sorted and
// the output carries no timestamps, so re-running it on an unchanged
// registry is byte-identical. External tooling relies on that for
// diff-based drift checks.
package typegen

import (
	"fmt"
	"strings"

	"github.com/quotelane/fieldreg/internal/registry"
	"github.com/quotelane/fieldreg/internal/schema"
)

const header = `// =============================================================================
// AUTO-GENERATED FROM THE FIELD REGISTRY - DO NOT EDIT MANUALLY
// Regenerate with: fieldreg generate-types
// =============================================================================
`

// Generate renders the full TypeScript projection of the registry.
func Generate(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	writeCommonTypes(&b)
	writeEnums(&b, reg)
	writeProducts(&b, reg)

	return b.String()
}

func writeCommonTypes(b *strings.Builder) {
	b.WriteString(`// Common types

export interface Address {
  line1: string;
  line2?: string;
  city: string;
  region: string;
  postalCode: string;
  country?: string;
}

export type FieldSource = 'extracted' | 'user_provided' | 'inferred' | 'default';

export interface FieldValue<T = unknown> {
  value: T;
  confidence: number;
  source: FieldSource;
  timestamp: string;
}

export interface CollectedFields {
  [fieldId: string]: FieldValue;
}

export type Priority = 1 | 2 | 3 | 4;

`)
}

func writeEnums(b *strings.Builder, reg *registry.Registry) {
	b.WriteString("// Enums\n\n")
	for _, id := range reg.EnumIDs() {
		e, _ := reg.Enum(id)
		name := pascalCase(id)
		ids := e.ValueIDs()
		if len(ids) == 0 {
			continue
		}

		quoted := make([]string, len(ids))
		for i, v := range ids {
			quoted[i] = "'" + v + "'"
		}
		fmt.Fprintf(b, "export type %s = %s;\n\n", name, strings.Join(quoted, " | "))

		fmt.Fprintf(b, "export const %sValues = [\n", name)
		for _, v := range ids {
			fmt.Fprintf(b, "  '%s',\n", v)
		}
		b.WriteString("] as const;\n\n")
	}
}

func writeProducts(b *strings.Builder, reg *registry.Registry) {
	b.WriteString("// Product field types\n\n")
	productIDs := reg.ProductIDs()
	for _, id := range productIDs {
		p, _ := reg.Product(id)
		name := pascalCase(id) + "Fields"

		fmt.Fprintf(b, "/** Fields for %s */\n", p.DisplayName)
		fmt.Fprintf(b, "export interface %s {\n", name)
		for _, f := range p.Required {
			fmt.Fprintf(b, "  /** %s (required) */\n", f.DisplayName)
			fmt.Fprintf(b, "  %s: %s;\n", camelCase(f.ID), tsType(reg, f))
		}
		for _, f := range p.Optional {
			fmt.Fprintf(b, "  /** %s (optional) */\n", f.DisplayName)
			fmt.Fprintf(b, "  %s?: %s;\n", camelCase(f.ID), tsType(reg, f))
		}
		b.WriteString("}\n\n")
	}

	if len(productIDs) > 0 {
		names := make([]string, len(productIDs))
		for i, id := range productIDs {
			names[i] = pascalCase(id) + "Fields"
		}
		fmt.Fprintf(b, "export type ProductFields = %s;\n", strings.Join(names, " | "))
	}
}

// tsType maps a field's declared type to its TypeScript projection.
// The switch is exhaustive over schema.FieldType.
func tsType(reg *registry.Registry, f *schema.Field) string {
	switch f.Type {
	case schema.TypeText, schema.TypePhone, schema.TypeEmail, schema.TypeDate:
		return "string"
	case schema.TypeNumber, schema.TypeCurrency, schema.TypeYear:
		return "number"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeAddress:
		return "Address"
	case schema.TypeSelect:
		return enumUnion(reg, f.Enum, "string")
	case schema.TypeMultiSelect:
		union := enumUnion(reg, f.Enum, "string")
		if union == "string" {
			return "string[]"
		}
		return "(" + union + ")[]"
	default:
		return "unknown"
	}
}

// enumUnion renders the enum's value IDs as a union literal, or fallback
// when the enum is missing (the validator reports that separately).
func enumUnion(reg *registry.Registry, enumID, fallback string) string {
	e, err := reg.Enum(enumID)
	if err != nil || len(e.Values) == 0 {
		return fallback
	}
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = "'" + v.ID + "'"
	}
	return strings.Join(parts, " | ")
}

func pascalCase(snake string) string {
	parts := strings.Split(snake, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func camelCase(snake string) string {
	pc := pascalCase(snake)
	if pc == "" {
		return pc
	}
	return strings.ToLower(pc[:1]) + pc[1:]
}
