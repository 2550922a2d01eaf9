// Package extract evaluates a field's extraction patterns against
// conversational text and returns the first accepted match with its
// confidence.
//
// The algorithm is deterministic and pattern-driven, not statistical:
//
//  1. Any negative context cue present in the text suppresses extraction
//     outright. Negative evidence is absolute.
//  2. Pattern groups are tried in declaration order, patterns within a
//     group in declaration order. Declaration order encodes specificity
//     (explicit statements before inferred context), so the first accepted
//     match wins; matches are never re-ranked by confidence.
//  3. A capture that fails type coercion or falls outside the field's
//     valid range rejects that pattern only; extraction continues with the
//     next one. Range violations are evidence of a false-positive match,
//     not a data error.
//  4. The returned confidence is the matching group's declared score,
//     never adjusted by context presence.
//
// No match across all groups is a normal outcome, reported as ok=false
// rather than an error.
package extract
