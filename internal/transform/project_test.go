package transform

import (
	"reflect"
	"testing"
)

func TestProjectSelected(t *testing.T) {
	t.Run("structural preservation", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1,"b":2}]`)
		got := ProjectSelected(records, map[string]bool{"a": true})

		want := mustRecords(t, `[{"a":1}]`)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}

		// b must be fully absent, not null
		if _, present := got[0].(map[string]any)["b"]; present {
			t.Error("unselected field b should be absent, not null")
		}
	})

	t.Run("idempotence", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1,"b":{"c":2,"d":3},"e":[{"f":4}]}]`)
		selected := map[string]bool{"a": true, "b.c": true, "e.[].f": true}

		once := ProjectSelected(records, selected)
		twice := ProjectSelected(once, selected)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("projection not idempotent: %v vs %v", once, twice)
		}
	})

	t.Run("ancestor retained for nested selection", func(t *testing.T) {
		records := mustRecords(t, `[{"b":{"c":2,"d":3}}]`)
		got := ProjectSelected(records, map[string]bool{"b.c": true})

		want := mustRecords(t, `[{"b":{"c":2}}]`)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("unselected subtree omitted entirely", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1,"b":{"c":2}}]`)
		got := ProjectSelected(records, map[string]bool{"a": true})

		if _, present := got[0].(map[string]any)["b"]; present {
			t.Error("object with no selected descendant should be omitted, not emitted empty")
		}
	})

	t.Run("arrays always re-emitted as arrays", func(t *testing.T) {
		records := mustRecords(t, `[{"tags":[{"name":"rock","count":1},{"name":"idm","count":2}]}]`)
		got := ProjectSelected(records, map[string]bool{"tags.[].name": true})

		tags, ok := got[0].(map[string]any)["tags"].([]any)
		if !ok {
			t.Fatalf("tags should remain an array, got %T", got[0].(map[string]any)["tags"])
		}
		if len(tags) != 2 {
			t.Fatalf("array length must be preserved, got %d", len(tags))
		}
		first := tags[0].(map[string]any)
		if first["name"] != "rock" {
			t.Errorf("expected name retained, got %v", first)
		}
		if _, present := first["count"]; present {
			t.Error("count should be filtered from array elements")
		}
	})

	t.Run("primitive array elements pass through", func(t *testing.T) {
		records := mustRecords(t, `[{"genres":["idm","ambient"]}]`)
		got := ProjectSelected(records, map[string]bool{"genres": true})

		want := mustRecords(t, `[{"genres":["idm","ambient"]}]`)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("record count and order preserved", func(t *testing.T) {
		records := mustRecords(t, `[{"a":1},{"a":2},{"a":3}]`)
		got := ProjectSelected(records, map[string]bool{"a": true})

		if len(got) != 3 {
			t.Fatalf("record count changed: %d", len(got))
		}
		for i, rec := range got {
			if rec.(map[string]any)["a"] != float64(i+1) {
				t.Errorf("record order not preserved at %d: %v", i, rec)
			}
		}
	})

	t.Run("nil records pass through", func(t *testing.T) {
		records := []any{nil, map[string]any{"a": 1.0}}
		got := ProjectSelected(records, map[string]bool{"a": true})

		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		if got[0] != nil {
			t.Errorf("nil record should pass through, got %v", got[0])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := ProjectSelected(nil, map[string]bool{"a": true})
		if len(got) != 0 {
			t.Errorf("expected empty output, got %v", got)
		}
	})
}

func TestProject(t *testing.T) {
	records := mustRecords(t, `[{"a":1,"b":2}]`)
	fields := []Field{
		{Path: "a", Selected: true},
		{Path: "b", Selected: false},
	}

	got := Project(records, fields)
	want := mustRecords(t, `[{"a":1}]`)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelectedPaths(t *testing.T) {
	fields := []Field{
		{Path: "a", Selected: true},
		{Path: "b", Selected: false},
		{Path: "c.d", Selected: true},
	}

	got := SelectedPaths(fields)
	if len(got) != 2 || !got["a"] || !got["c.d"] {
		t.Errorf("unexpected selected set: %v", got)
	}
}
