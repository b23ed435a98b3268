package transform

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/artx/internal/shared"
)

// Logical column types derived from JSON leaves. Dialects map these to
// concrete SQL types.
const (
	ColText    = "TEXT"
	ColInteger = "INTEGER"
	ColDecimal = "DECIMAL"
	ColBoolean = "BOOLEAN"
	ColJSON    = "JSON"
)

// DefaultBatchSize is the number of rows per multi-row INSERT when the
// caller does not specify one.
const DefaultBatchSize = 100

// Column is one derived table column: a sanitized underscore-joined name and
// a logical type.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Dialect identifies a SQL dialect in the dialect table.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectOracle   Dialect = "oracle"
)

// dialectSpec is the per-dialect data driving SQL emission. Adding a dialect
// means adding a row here, not changing the algorithm.
type dialectSpec struct {
	types     map[string]string
	boolTrue  string
	boolFalse string
	// multiRow dialects batch rows into one INSERT; others emit one
	// statement per row.
	multiRow bool
}

var dialects = map[Dialect]dialectSpec{
	DialectSQLite: {
		types: map[string]string{
			ColText: "TEXT", ColInteger: "INTEGER", ColDecimal: "NUMERIC",
			ColBoolean: "INTEGER", ColJSON: "TEXT",
		},
		boolTrue: "1", boolFalse: "0",
		multiRow: true,
	},
	DialectPostgres: {
		types: map[string]string{
			ColText: "TEXT", ColInteger: "BIGINT", ColDecimal: "NUMERIC(18,6)",
			ColBoolean: "BOOLEAN", ColJSON: "JSONB",
		},
		boolTrue: "TRUE", boolFalse: "FALSE",
		multiRow: true,
	},
	DialectMySQL: {
		types: map[string]string{
			ColText: "TEXT", ColInteger: "BIGINT", ColDecimal: "DECIMAL(18,6)",
			ColBoolean: "TINYINT(1)", ColJSON: "JSON",
		},
		boolTrue: "1", boolFalse: "0",
		multiRow: true,
	},
	// Oracle predates multi-row VALUES lists, so it gets one INSERT per row.
	DialectOracle: {
		types: map[string]string{
			ColText: "VARCHAR2(4000)", ColInteger: "NUMBER(19)", ColDecimal: "NUMBER(19,6)",
			ColBoolean: "NUMBER(1)", ColJSON: "CLOB",
		},
		boolTrue: "1", boolFalse: "0",
		multiRow: false,
	},
}

var columnSanitizer = regexp.MustCompile(`[^a-z0-9_]`)

// DeriveColumns flattens a single sample record into a column set. Nested
// object keys join with underscores; arrays at any depth become one
// JSON-typed column and are never flattened further. Columns are ordered by
// name for deterministic output.
func DeriveColumns(sample any) []Column {
	m, ok := sample.(map[string]any)
	if !ok {
		return nil
	}

	var columns []Column
	flattenColumns(m, "", &columns)
	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })
	return columns
}

func flattenColumns(node map[string]any, prefix string, columns *[]Column) {
	for key, val := range node {
		name := key
		if prefix != "" {
			name = prefix + "_" + key
		}

		if child, ok := val.(map[string]any); ok {
			flattenColumns(child, name, columns)
			continue
		}

		*columns = append(*columns, Column{
			Name: SanitizeColumnName(name),
			Type: columnType(val),
		})
	}
}

// SanitizeColumnName lowercases a column name and replaces every character
// outside [a-z0-9_] with an underscore.
func SanitizeColumnName(name string) string {
	return columnSanitizer.ReplaceAllString(strings.ToLower(name), "_")
}

func columnType(v any) string {
	switch node := v.(type) {
	case bool:
		return ColBoolean
	case float64:
		if node == math.Trunc(node) {
			return ColInteger
		}
		return ColDecimal
	case []any:
		return ColJSON
	default:
		// null, undefined, and strings all land on TEXT
		return ColText
	}
}

// ToSQL renders records as a CREATE TABLE statement followed by INSERTs for
// the given dialect. The column set derives from the first record; rows
// missing a column render SQL NULL, so arity never drifts. batchSize <= 0
// uses [DefaultBatchSize]; it only affects multi-row dialects.
func ToSQL(records []any, table string, dialect Dialect, batchSize int) (string, error) {
	spec, ok := dialects[dialect]
	if !ok {
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownDialect, dialect)
	}
	if len(records) == 0 {
		return "", nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	columns := DeriveColumns(records[0])
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: sample record has no columns", shared.ErrInvalidInput)
	}
	table = SanitizeColumnName(table)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", table))
	for i, col := range columns {
		sb.WriteString(fmt.Sprintf("  %s %s", col.Name, spec.types[col.Type]))
		if i < len(columns)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(");\n\n")

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	insertHead := fmt.Sprintf("INSERT INTO %s (%s) VALUES", table, strings.Join(names, ", "))

	rows := make([]string, len(records))
	for i, record := range records {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = formatSQLValue(lookupColumn(record, col.Name), spec)
		}
		rows[i] = "(" + strings.Join(values, ", ") + ")"
	}

	if !spec.multiRow {
		for _, row := range rows {
			sb.WriteString(insertHead)
			sb.WriteString(" ")
			sb.WriteString(row)
			sb.WriteString(";\n")
		}
		return sb.String(), nil
	}

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		sb.WriteString(insertHead)
		sb.WriteString("\n  ")
		sb.WriteString(strings.Join(rows[start:end], ",\n  "))
		sb.WriteString(";\n")
	}

	return sb.String(), nil
}

// ToCSV renders records as CSV text under the column set derived from the
// first record. Every row has exactly one field per column; missing values
// render empty. Nested values serialize as compact JSON. Quoting follows
// [encoding/csv] (fields containing commas, quotes, or newlines are quoted
// with embedded quotes doubled).
func ToCSV(records []any) string {
	if len(records) == 0 {
		return ""
	}

	columns := DeriveColumns(records[0])
	if len(columns) == 0 {
		return ""
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	writer.Write(header)

	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatCSVValue(lookupColumn(record, col.Name))
		}
		writer.Write(row)
	}

	writer.Flush()
	return sb.String()
}

// lookupColumn resolves a column value by splitting the column name on "_"
// and descending the record by successive keys, matching keys by their
// sanitized form. This is lossy when original keys themselves contain
// underscores ("a_b" the key is indistinguishable from nesting a.b); that
// ambiguity is inherent to the underscore-joined naming convention.
func lookupColumn(record any, name string) any {
	v, _ := lookupParts(record, strings.Split(name, "_"))
	return v
}

// lookupParts descends the record, greedily consuming as many leading path
// parts as possible per key. Keys are matched by their sanitized form, since
// column names were lowercased during derivation.
func lookupParts(v any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return v, true
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	for take := len(parts); take >= 1; take-- {
		candidate := strings.Join(parts[:take], "_")
		for key, val := range m {
			if SanitizeColumnName(key) != candidate {
				continue
			}
			if res, found := lookupParts(val, parts[take:]); found {
				return res, true
			}
		}
	}

	return nil, false
}

func formatSQLValue(v any, spec dialectSpec) string {
	switch node := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if node {
			return spec.boolTrue
		}
		return spec.boolFalse
	case float64:
		return strconv.FormatFloat(node, 'f', -1, 64)
	case string:
		return quoteSQLString(node)
	default:
		data, err := json.Marshal(node)
		if err != nil {
			return quoteSQLString("<unserializable>")
		}
		return quoteSQLString(string(data))
	}
}

func quoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatCSVValue(v any) string {
	switch node := v.(type) {
	case nil:
		return ""
	case string:
		return node
	case bool:
		return strconv.FormatBool(node)
	case float64:
		return strconv.FormatFloat(node, 'f', -1, 64)
	default:
		data, err := json.Marshal(node)
		if err != nil {
			return "<unserializable>"
		}
		return string(data)
	}
}
