// Package transform implements structural transformations over heterogeneous JSON record arrays.
//
// Records are decoded JSON values as produced by [encoding/json]: nil, bool,
// float64, string, []any, and map[string]any. Every function in this package
// is a pure, stateless free function over those trees; malformed input (a
// non-array, a nil slice) degrades to an empty result rather than an error.
//
// # Operations
//
//  1. [Analyze] : recursive field-path discovery over a record sample,
//     producing a [Schema] of typed, described field descriptors
//  2. [Project] / [ProjectSelected] : selection-driven narrowing of each
//     record to the chosen field paths
//  3. [Dedupe] : key-order-independent structural deduplication with a
//     suspected-identifier report
//  4. [Merge] : multi-array combination under append/merge/replace
//     strategies with configurable conflict resolution
//  5. [DeriveColumns] / [ToSQL] / [ToCSV] : flat tabular conversion with a
//     table-driven SQL dialect map
//
// Field paths are dot-joined object keys; the literal segment "[]" marks
// descent into array elements (e.g. "tags.[].name").
package transform
