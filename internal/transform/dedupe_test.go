package transform

import (
	"reflect"
	"slices"
	"testing"
)

func TestDedupe(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		records := mustRecords(t, `[{"name":"X"},{"name":"Y"},{"name":"X"}]`)
		result := Dedupe(records)

		want := mustRecords(t, `[{"name":"X"},{"name":"Y"}]`)
		if !reflect.DeepEqual(result.Records, want) {
			t.Errorf("kept records = %v, want %v", result.Records, want)
		}
		if result.RemovedCount != 1 {
			t.Errorf("removed = %d, want 1", result.RemovedCount)
		}
	})

	t.Run("counts invariant", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1},{"a":1},{"a":2},{"a":1},{"b":3}]`)
		result := Dedupe(records)

		if result.KeptCount+result.RemovedCount != result.OriginalCount {
			t.Errorf("kept %d + removed %d != original %d", result.KeptCount, result.RemovedCount, result.OriginalCount)
		}
		if result.OriginalCount != 5 {
			t.Errorf("original = %d, want 5", result.OriginalCount)
		}
		if len(result.Records) != result.KeptCount {
			t.Errorf("records length %d != kept count %d", len(result.Records), result.KeptCount)
		}
	})

	t.Run("key order independence", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1,"b":2},{"b":2,"a":1}]`)
		result := Dedupe(records)

		if result.KeptCount != 1 {
			t.Errorf("key-order variants should be duplicates, kept %d", result.KeptCount)
		}
	})

	t.Run("nested key order independence", func(t *testing.T) {
		records := mustRecords(t, `[{"o":{"x":1,"y":[{"p":1,"q":2}]}},{"o":{"y":[{"q":2,"p":1}],"x":1}}]`)
		result := Dedupe(records)

		if result.KeptCount != 1 {
			t.Errorf("nested key-order variants should be duplicates, kept %d", result.KeptCount)
		}
	})

	t.Run("array order is significant", func(t *testing.T) {
		records := mustRecords(t, `[{"a":[1,2]},{"a":[2,1]}]`)
		result := Dedupe(records)

		if result.KeptCount != 2 {
			t.Errorf("reordered arrays are distinct records, kept %d", result.KeptCount)
		}
	})

	t.Run("suspected keys", func(t *testing.T) {
		records := mustRecords(t, `[
			{"mbid":"m1","website":"https://example.com","plain":"x"},
			{"mbid":"m1","website":"https://example.com","plain":"x"}
		]`)
		result := Dedupe(records)

		if !slices.Contains(result.SuspectedKeys, "mbid") {
			t.Errorf("mbid should be suspected, got %v", result.SuspectedKeys)
		}
		if !slices.Contains(result.SuspectedKeys, "website") {
			t.Errorf("http-valued website should be suspected, got %v", result.SuspectedKeys)
		}
		if slices.Contains(result.SuspectedKeys, "plain") {
			t.Errorf("plain should not be suspected, got %v", result.SuspectedKeys)
		}
	})

	t.Run("suspects reported only for dropped records", func(t *testing.T) {
		records := mustRecords(t, `[{"mbid":"m1"},{"mbid":"m2"}]`)
		result := Dedupe(records)

		if len(result.SuspectedKeys) != 0 {
			t.Errorf("no duplicates were dropped, got suspects %v", result.SuspectedKeys)
		}
	})

	t.Run("nil records normalize to one constant", func(t *testing.T) {
		records := []any{nil, nil, map[string]any{"a": 1.0}}
		result := Dedupe(records)

		if result.KeptCount != 2 {
			t.Errorf("two nils should dedupe to one, kept %d", result.KeptCount)
		}
	})

	t.Run("degenerate input", func(t *testing.T) {
		result := Dedupe(nil)
		if result.OriginalCount != 0 || result.KeptCount != 0 || result.RemovedCount != 0 {
			t.Errorf("expected all-zero counts, got %+v", result)
		}
		if result.Records == nil || result.SuspectedKeys == nil {
			t.Error("expected empty (non-nil) slices")
		}
	})
}

func TestFingerprint(t *testing.T) {
	tc := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{name: "identical", a: `{"x":1}`, b: `{"x":1}`, same: true},
		{name: "key order", a: `{"x":1,"y":2}`, b: `{"y":2,"x":1}`, same: true},
		{name: "different value", a: `{"x":1}`, b: `{"x":2}`, same: false},
		{name: "string vs number", a: `{"x":"1"}`, b: `{"x":1}`, same: false},
		{name: "null vs missing", a: `{"x":null}`, b: `{}`, same: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			a := mustRecords(t, "["+tt.a+"]")[0]
			b := mustRecords(t, "["+tt.b+"]")[0]

			if (Fingerprint(a) == Fingerprint(b)) != tt.same {
				t.Errorf("Fingerprint equality = %v, want %v", !tt.same, tt.same)
			}
		})
	}

	t.Run("unserializable value degrades to marker", func(t *testing.T) {
		record := map[string]any{"fn": func() {}}
		fp := Fingerprint(record)
		if fp == "" {
			t.Error("fingerprint must not be empty for unserializable values")
		}
	})
}
