// Package validation is the boundary check applied to every inbound field set
// before the device registry or position log is asked to mutate anything.
//
// Checking happens in two stages:
//
//  1. Wire shape. A Schema (JSON Schema, draft 2020-12) fixes the named
//     field set of an entity and the JSON type of each field. Unknown
//     properties are violations.
//  2. Domain rules. A Collector walks the decoded fields of one operation
//     (create or partial update) and records every violation it finds:
//     empty strings, values outside a closed enumeration, unparsable
//     timestamps, non-finite numbers and missing required fields.
//
// Both stages report failures as *Error, which carries the full violation
// list and satisfies errors.Is(err, ErrValidationFailed). Callers never see
// a partially-validated record.
package validation
