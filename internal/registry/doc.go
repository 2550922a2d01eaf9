// Package registry loads declarative YAML sources into an immutable
// aggregate of enums, products, and field definitions, and provides typed
// lookups into it.
//
// A Registry is built once by Load and never mutated afterwards, so every
// read method is safe to call concurrently without locking. There is no
// package-level singleton: callers construct a Registry at startup and pass
// the reference down, and tests build private instances from testdata.
//
// Merge semantics: sources are parsed in deterministic order (directory
// entries sorted by name, then explicit sources in the order given).
// Identifier collisions across sources are load errors, never last-write
// overrides.
package registry
