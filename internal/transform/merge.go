package transform

import (
	"fmt"

	"github.com/desertthunder/artx/internal/shared"
)

// Strategy selects how Merge combines record arrays.
type Strategy string

const (
	StrategyAppend  Strategy = "append"
	StrategyMerge   Strategy = "merge"
	StrategyReplace Strategy = "replace"
)

// Resolution selects how the merge strategy resolves two records sharing an
// identity key.
type Resolution string

const (
	KeepFirst Resolution = "keep_first"
	KeepLast  Resolution = "keep_last"
	Combine   Resolution = "combine"
)

// MergeConfig configures [Merge]. Resolution only applies to
// [StrategyMerge]; when empty it defaults to [KeepLast].
type MergeConfig struct {
	Strategy   Strategy   `json:"strategy"`
	Resolution Resolution `json:"conflict_resolution"`
}

// identityKeyFields are probed in order to derive a record's identity key
// for the merge strategy; a record with none of them falls back to its full
// fingerprint. This heuristic is value-based and order-dependent; a
// caller-supplied key selector is the obvious extension point if it ever
// needs to change.
var identityKeyFields = []string{"artistName", "id", "name"}

// Merge combines record arrays under the configured strategy by folding a
// binary combine left-to-right.
//
//   - append: plain concatenation, never dropping or mutating a record
//   - replace: the right operand wins, so the final input array wins overall
//   - merge: records are keyed by identity; new keys append, colliding keys
//     resolve per MergeConfig.Resolution
//
// Zero arrays yield an empty result; a single array is returned unchanged.
// The fold always builds fresh slices (and, for combine, fresh maps), so
// inputs are never aliased or mutated.
func Merge(arrays [][]any, cfg MergeConfig) ([]any, error) {
	switch cfg.Strategy {
	case StrategyAppend, StrategyMerge, StrategyReplace:
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownStrategy, cfg.Strategy)
	}

	resolution := cfg.Resolution
	if cfg.Strategy == StrategyMerge {
		if resolution == "" {
			resolution = KeepLast
		}
		switch resolution {
		case KeepFirst, KeepLast, Combine:
		default:
			return nil, fmt.Errorf("%w: %q", shared.ErrUnknownResolution, cfg.Resolution)
		}
	}

	if len(arrays) == 0 {
		return []any{}, nil
	}
	if len(arrays) == 1 {
		return arrays[0], nil
	}

	result := arrays[0]
	for _, next := range arrays[1:] {
		result = combinePair(result, next, cfg.Strategy, resolution)
	}
	return result, nil
}

func combinePair(left, right []any, strategy Strategy, resolution Resolution) []any {
	switch strategy {
	case StrategyReplace:
		return right
	case StrategyAppend:
		out := make([]any, 0, len(left)+len(right))
		out = append(out, left...)
		return append(out, right...)
	}

	out := make([]any, len(left))
	copy(out, left)

	positions := make(map[string]int, len(out))
	for i, record := range out {
		positions[identityKey(record)] = i
	}

	for _, record := range right {
		key := identityKey(record)
		pos, exists := positions[key]
		if !exists {
			positions[key] = len(out)
			out = append(out, record)
			continue
		}

		switch resolution {
		case KeepFirst:
			// left operand retained unchanged
		case KeepLast:
			out[pos] = record
		case Combine:
			out[pos] = shallowMerge(out[pos], record)
		}
	}

	return out
}

// identityKey derives the value the merge strategy uses to decide whether
// two records are "the same" entity: the first present of artistName, id,
// name, else the record's fingerprint.
func identityKey(record any) string {
	if m, ok := record.(map[string]any); ok {
		for _, field := range identityKeyFields {
			if v, present := m[field]; present && v != nil {
				return fmt.Sprintf("%v", v)
			}
		}
	}
	return Fingerprint(record)
}

// shallowMerge overlays right's top-level fields over left (right wins
// per-field) into a fresh map. Non-object operands fall back to right.
func shallowMerge(left, right any) any {
	leftMap, lok := left.(map[string]any)
	rightMap, rok := right.(map[string]any)
	if !lok || !rok {
		return right
	}

	out := make(map[string]any, len(leftMap)+len(rightMap))
	for k, v := range leftMap {
		out[k] = v
	}
	for k, v := range rightMap {
		out[k] = v
	}
	return out
}
