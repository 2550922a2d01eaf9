// Package schema defines the typed model for the field registry: field
// types, enums, products, field definitions, extraction pattern groups,
// context patterns, dependencies, and cross-product equivalence references.
//
// The model is constructed once by the registry loader and treated as
// immutable afterwards. Nothing in this package mutates a definition after
// construction, so all types are safe for concurrent reads.
//
// # Field types
//
// FieldType is a closed enumeration. Every place that dispatches on it
// (value coercion, type projection) uses an exhaustive switch; an
// unrecognized type string is rejected at load time by ParseFieldType
// rather than defaulting.
//
// # Values
//
// Value is the coerced form of an extracted raw string. Coerce selects the
// coercion per field type: numeric types parse to float64, year to an
// integer, boolean maps a closed lexical set, select types normalize the
// capture and require membership in the field's enum.
package schema
