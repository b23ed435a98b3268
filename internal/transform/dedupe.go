package transform

import (
	"encoding/json"
	"sort"
	"strings"
)

// unserializableMarker substitutes for values that cannot be canonically
// serialized, so one bad record never aborts a batch.
const unserializableMarker = `"<unserializable>"`

// identifierFragments are name fragments that commonly mark natural identity
// keys. Matching is case-insensitive substring, diagnostic only.
var identifierFragments = []string{"id", "artistname", "mbid", "name", "email", "url", "uuid"}

// DedupeResult reports a deduplication pass. KeptCount + RemovedCount always
// equals OriginalCount, and Records preserves the relative order of kept
// records (first occurrence wins).
type DedupeResult struct {
	OriginalCount int      `json:"original_count"`
	KeptCount     int      `json:"kept_count"`
	RemovedCount  int      `json:"removed_count"`
	SuspectedKeys []string `json:"suspected_keys"`
	Records       []any    `json:"records"`
}

// Dedupe removes records structurally identical to an earlier record.
//
// Identity is decided by string equality of [Fingerprint] values, which is
// independent of object key order. For every dropped duplicate, top-level
// keys that look like natural identifiers are collected into SuspectedKeys;
// the report never influences which records are removed.
func Dedupe(records []any) DedupeResult {
	result := DedupeResult{
		SuspectedKeys: []string{},
		Records:       []any{},
	}
	if len(records) == 0 {
		return result
	}

	seen := map[string]bool{}
	suspects := map[string]bool{}

	for _, record := range records {
		fp := Fingerprint(record)
		if !seen[fp] {
			seen[fp] = true
			result.Records = append(result.Records, record)
			continue
		}

		result.RemovedCount++
		collectSuspects(record, suspects)
	}

	result.OriginalCount = len(records)
	result.KeptCount = len(result.Records)

	for key := range suspects {
		result.SuspectedKeys = append(result.SuspectedKeys, key)
	}
	sort.Strings(result.SuspectedKeys)

	return result
}

// Fingerprint returns the canonical serialization of a record: object keys
// sorted recursively, arrays preserved in order, primitives rendered via
// their JSON form. Nil normalizes to the constant "null".
func Fingerprint(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	switch node := v.(type) {
	case nil:
		sb.WriteString("null")
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, k)
			sb.WriteByte(':')
			writeCanonical(sb, node[k])
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, elem := range node {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, elem)
		}
		sb.WriteByte(']')
	default:
		data, err := json.Marshal(node)
		if err != nil {
			sb.WriteString(unserializableMarker)
			return
		}
		sb.Write(data)
	}
}

// collectSuspects scans a dropped duplicate's top-level keys for plausible
// identity fields: well-known name fragments, or string values that are URLs.
func collectSuspects(record any, suspects map[string]bool) {
	m, ok := record.(map[string]any)
	if !ok {
		return
	}

	for key, val := range m {
		lower := strings.ToLower(key)
		for _, fragment := range identifierFragments {
			if strings.Contains(lower, fragment) {
				suspects[key] = true
				break
			}
		}
		if s, ok := val.(string); ok && strings.HasPrefix(s, "http") {
			suspects[key] = true
		}
	}
}
