package transform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/artx/internal/shared"
)

// DefaultSampleSize bounds how many records field discovery inspects.
//
// This is a cost/completeness policy, not a coverage guarantee: fields that
// first appear beyond the sample are not discovered. Use [AnalyzeSample] to
// override.
const DefaultSampleSize = 100

// ArrayMarker is the path segment representing descent into array elements.
const ArrayMarker = "[]"

// maxSampleLength bounds the rendered sample value for string fields.
const maxSampleLength = 100

// Field describes one discovered field path across a record sample.
type Field struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Sample      string `json:"sample"`
	Selected    bool   `json:"selected"`
	Description string `json:"description,omitempty"`
}

// Schema is the result of analyzing a record array: the union of discovered
// field paths (sorted by path string), a per-type histogram, the total record
// count, and a human-readable estimate of the serialized dataset size.
type Schema struct {
	Fields       []Field        `json:"fields"`
	RecordCount  int            `json:"record_count"`
	SizeEstimate string         `json:"size_estimate"`
	TypeCounts   map[string]int `json:"type_counts"`
}

// fieldDescriptions maps well-known field names (the last path segment) to
// human descriptions. Names follow the MusicBrainz, TheAudioDB, and YouTube
// response vocabularies this tool aggregates.
var fieldDescriptions = map[string]string{
	"artistName":      "Artist name as entered",
	"name":            "Display name",
	"mbid":            "MusicBrainz identifier",
	"score":           "MusicBrainz search match score",
	"country":         "ISO country code",
	"disambiguation":  "MusicBrainz disambiguation comment",
	"life-span":       "Active period of the artist",
	"tags":            "Genre tags",
	"strArtist":       "Artist name from TheAudioDB",
	"strBiographyEN":  "English-language biography",
	"strGenre":        "Primary genre",
	"strStyle":        "Musical style",
	"strMood":         "Overall mood",
	"strArtistThumb":  "Artist thumbnail image URL",
	"strArtistLogo":   "Artist logo image URL",
	"strFacebook":     "Facebook page",
	"strWebsite":      "Official website",
	"intFormedYear":   "Year the act was formed",
	"channelId":       "YouTube channel identifier",
	"channelTitle":    "YouTube channel title",
	"subscriberCount": "YouTube subscriber count",
	"videoId":         "YouTube video identifier",
}

// Analyze discovers the union of field paths across records, sampling at
// most [DefaultSampleSize] records.
func Analyze(records []any) Schema {
	return AnalyzeSample(records, DefaultSampleSize)
}

// AnalyzeSample is [Analyze] with a caller-supplied sampling cap.
//
// Empty or nil input yields an empty Schema, not an error. The first
// occurrence of a path wins: later records never overwrite a descriptor's
// type, sample, or description.
func AnalyzeSample(records []any, sampleSize int) Schema {
	schema := Schema{TypeCounts: map[string]int{}}
	if len(records) == 0 {
		schema.SizeEstimate = shared.FormatBytes(0)
		return schema
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	seen := map[string]Field{}
	limit := min(sampleSize, len(records))
	for _, record := range records[:limit] {
		discoverFields(record, "", seen)
	}

	fields := make([]Field, 0, len(seen))
	for _, f := range seen {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })

	for _, f := range fields {
		schema.TypeCounts[f.Type]++
	}

	schema.Fields = fields
	schema.RecordCount = len(records)
	schema.SizeEstimate = estimateSize(records)
	return schema
}

// discoverFields walks one record, adding a descriptor for every object key
// at every nesting level. Arrays are characterized by their first element
// only; null values terminate descent.
func discoverFields(v any, prefix string, seen map[string]Field) {
	switch node := v.(type) {
	case map[string]any:
		for key, val := range node {
			path := joinPath(prefix, key)
			if _, ok := seen[path]; !ok {
				seen[path] = Field{
					Path:        path,
					Type:        typeOf(val),
					Sample:      sampleValue(val),
					Selected:    true,
					Description: describeField(key, val),
				}
			}
			discoverFields(val, path, seen)
		}
	case []any:
		if len(node) > 0 {
			discoverFields(node[0], joinPath(prefix, ArrayMarker), seen)
		}
	}
}

// typeOf reports the schema type of a decoded JSON value. null is distinct
// from object; arrays are "array" regardless of element type.
func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "undefined"
	}
}

// sampleValue renders a short representation of a field's first-seen value.
func sampleValue(v any) string {
	switch node := v.(type) {
	case nil:
		return "null"
	case string:
		return shared.TruncateString(node, maxSampleLength)
	case []any:
		return fmt.Sprintf("[%d items]", len(node))
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(node))
	default:
		return fmt.Sprintf("%v", node)
	}
}

// describeField returns a human description for a field: the lookup table
// first, then a URL heuristic, then an identifier heuristic.
func describeField(key string, v any) string {
	if desc, ok := fieldDescriptions[key]; ok {
		return desc
	}
	if s, ok := v.(string); ok {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return "URL"
		}
	}
	if strings.Contains(strings.ToLower(key), "id") {
		return "Unique identifier"
	}
	return ""
}

// estimateSize serializes the full (not sampled) input and formats the byte
// length with binary prefixes.
func estimateSize(records []any) string {
	data, err := json.Marshal(records)
	if err != nil {
		return "unknown"
	}
	return shared.FormatBytes(len(data))
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
