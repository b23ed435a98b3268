package transform

import "strings"

// Project narrows each record to the fields whose Selected flag is set.
//
// The transformation is pure and order/count preserving: records are never
// added, removed, or reordered, only reshaped.
func Project(records []any, fields []Field) []any {
	selected := SelectedPaths(fields)
	return ProjectSelected(records, selected)
}

// SelectedPaths extracts the set of selected path strings from a field list.
func SelectedPaths(fields []Field) map[string]bool {
	selected := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Selected {
			selected[f.Path] = true
		}
	}
	return selected
}

// ProjectSelected narrows each record to the given selected path set.
//
// A path is retained if it is selected exactly, or if it is a container
// whose subtree holds at least one selected descendant (prefix match on
// path + "."). Containers matching neither rule are omitted entirely rather
// than emitted empty; arrays that survive selection are always re-emitted as
// arrays. Nil records and non-object records pass through unchanged.
func ProjectSelected(records []any, selected map[string]bool) []any {
	if len(records) == 0 {
		return []any{}
	}

	out := make([]any, 0, len(records))
	for _, record := range records {
		if m, ok := record.(map[string]any); ok {
			out = append(out, projectObject(m, "", selected))
		} else {
			out = append(out, record)
		}
	}
	return out
}

func projectObject(node map[string]any, prefix string, selected map[string]bool) map[string]any {
	out := map[string]any{}
	for key, val := range node {
		path := joinPath(prefix, key)
		exact := selected[path]
		descendant := hasSelectedDescendant(path, selected)
		if !exact && !descendant {
			continue
		}

		switch child := val.(type) {
		case map[string]any:
			out[key] = projectObject(child, path, selected)
		case []any:
			out[key] = projectArray(child, path, selected)
		default:
			// Leaves carry no subtree; only an exact selection keeps them.
			if exact {
				out[key] = val
			}
		}
	}
	return out
}

// projectArray filters every element under the array-marker path. The array
// shape is preserved even when every element filters down to an empty
// object, so downstream consumers can rely on structural stability.
func projectArray(node []any, prefix string, selected map[string]bool) []any {
	elemPath := joinPath(prefix, ArrayMarker)
	out := make([]any, 0, len(node))
	for _, elem := range node {
		switch child := elem.(type) {
		case map[string]any:
			out = append(out, projectObject(child, elemPath, selected))
		case []any:
			out = append(out, projectArray(child, elemPath, selected))
		default:
			out = append(out, elem)
		}
	}
	return out
}

func hasSelectedDescendant(path string, selected map[string]bool) bool {
	prefix := path + "."
	for p := range selected {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
