package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/artx/internal/shared"
)

func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

func TestDeriveColumns(t *testing.T) {
	t.Run("flattening and types", func(t *testing.T) {
		record := mustRecords(t, `[{
			"artistName":"Nina Simone",
			"score":100,
			"rating":4.5,
			"active":true,
			"bio":null,
			"meta":{"country":"US","links":{"web":"https://example.com"}},
			"tags":[{"name":"jazz"}]
		}]`)[0]

		columns := DeriveColumns(record)
		want := map[string]string{
			"artistname":     ColText,
			"score":          ColInteger,
			"rating":         ColDecimal,
			"active":         ColBoolean,
			"bio":            ColText,
			"meta_country":   ColText,
			"meta_links_web": ColText,
			"tags":           ColJSON,
		}
		if len(columns) != len(want) {
			t.Fatalf("got %d columns %v, want %d", len(columns), columnNames(columns), len(want))
		}
		for _, col := range columns {
			if want[col.Name] != col.Type {
				t.Errorf("column %q type = %s, want %s", col.Name, col.Type, want[col.Name])
			}
		}
	})

	t.Run("sorted by name", func(t *testing.T) {
		record := mustRecords(t, `[{"z":1,"a":2,"m":3}]`)[0]
		names := columnNames(DeriveColumns(record))
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Fatalf("columns not sorted: %v", names)
			}
		}
	})

	t.Run("non-object sample", func(t *testing.T) {
		if columns := DeriveColumns("scalar"); columns != nil {
			t.Errorf("expected nil for non-object sample, got %v", columns)
		}
	})
}

func TestSanitizeColumnName(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{"strArtistThumb", "strartistthumb"},
		{"life-span.begin", "life_span_begin"},
		{"Name (Full)", "name__full_"},
		{"already_fine_9", "already_fine_9"},
	}
	for _, tt := range tc {
		if got := SanitizeColumnName(tt.in); got != tt.want {
			t.Errorf("SanitizeColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToSQL(t *testing.T) {
	records := mustRecords(t, `[
		{"name":"Nina Simone","score":100,"active":true},
		{"name":"O'Connor","score":95.5},
		{"name":null,"score":88,"active":false}
	]`)

	t.Run("create table and row arity", func(t *testing.T) {
		sql, err := ToSQL(records, "artists", DialectSQLite, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.HasPrefix(sql, "CREATE TABLE artists (") {
			t.Errorf("missing CREATE TABLE header in:\n%s", sql)
		}
		// header + 3 column defs inside CREATE, one tuple per record
		if got := strings.Count(sql, "("); got < 4 {
			t.Errorf("tuple count looks wrong in:\n%s", sql)
		}
		if got := strings.Count(sql, "INSERT INTO artists"); got != 1 {
			t.Errorf("sqlite should batch into one INSERT, got %d", got)
		}
	})

	t.Run("missing values render NULL", func(t *testing.T) {
		sql, err := ToSQL(records, "artists", DialectSQLite, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.Contains(sql, "NULL") {
			t.Errorf("record with absent column should emit NULL:\n%s", sql)
		}
	})

	t.Run("string quoting doubles quotes", func(t *testing.T) {
		sql, err := ToSQL(records, "artists", DialectSQLite, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.Contains(sql, "'O''Connor'") {
			t.Errorf("expected doubled single quote in:\n%s", sql)
		}
	})

	t.Run("batching splits inserts", func(t *testing.T) {
		sql, err := ToSQL(records, "artists", DialectPostgres, 2)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if got := strings.Count(sql, "INSERT INTO artists"); got != 2 {
			t.Errorf("3 records at batch size 2 should give 2 INSERTs, got %d:\n%s", got, sql)
		}
	})

	t.Run("oracle emits one insert per row", func(t *testing.T) {
		sql, err := ToSQL(records, "artists", DialectOracle, 100)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if got := strings.Count(sql, "INSERT INTO artists"); got != len(records) {
			t.Errorf("oracle INSERT count = %d, want %d:\n%s", got, len(records), sql)
		}
	})

	t.Run("dialect bool rendering", func(t *testing.T) {
		sqlite, err := ToSQL(records, "artists", DialectSQLite, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.Contains(sqlite, "1") {
			t.Errorf("sqlite booleans should render as integers:\n%s", sqlite)
		}
		pg, err := ToSQL(records, "artists", DialectPostgres, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.Contains(pg, "TRUE") {
			t.Errorf("postgres booleans should render as TRUE/FALSE:\n%s", pg)
		}
	})

	t.Run("table name sanitized", func(t *testing.T) {
		sql, err := ToSQL(records, "My Artists!", DialectSQLite, 0)
		if err != nil {
			t.Fatalf("ToSQL failed: %v", err)
		}
		if !strings.Contains(sql, "CREATE TABLE my_artists_") {
			t.Errorf("table name not sanitized:\n%s", sql)
		}
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := ToSQL(records, "artists", Dialect("mssql"), 0)
		if !errors.Is(err, shared.ErrUnknownDialect) {
			t.Errorf("expected ErrUnknownDialect, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		sql, err := ToSQL(nil, "artists", DialectSQLite, 0)
		if err != nil || sql != "" {
			t.Errorf("expected empty statement, got %q, %v", sql, err)
		}
	})
}

func TestToCSV(t *testing.T) {
	t.Run("row arity matches header", func(t *testing.T) {
		records := mustRecords(t, `[
			{"name":"A","meta":{"country":"US"}},
			{"name":"B"},
			{"name":"C","meta":{"country":"FR"},"extra":"dropped"}
		]`)

		out := ToCSV(records)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), out)
		}
		width := strings.Count(lines[0], ",")
		for i, line := range lines[1:] {
			if strings.Count(line, ",") != width {
				t.Errorf("row %d arity differs from header: %q", i, line)
			}
		}
	})

	t.Run("header uses sanitized flattened names", func(t *testing.T) {
		records := mustRecords(t, `[{"strArtist":"A","meta":{"country":"US"}}]`)
		out := ToCSV(records)
		header := strings.SplitN(out, "\n", 2)[0]
		if header != "meta_country,strartist" {
			t.Errorf("header = %q", header)
		}
	})

	t.Run("quoting and nested serialization", func(t *testing.T) {
		records := mustRecords(t, `[{"name":"Simone, Nina","tags":[{"name":"jazz"}]}]`)
		out := ToCSV(records)
		if !strings.Contains(out, `"Simone, Nina"`) {
			t.Errorf("comma field should be quoted:\n%s", out)
		}
		if !strings.Contains(out, `""name"":""jazz""`) {
			t.Errorf("array values should serialize as quoted JSON:\n%s", out)
		}
	})

	t.Run("missing values render empty", func(t *testing.T) {
		records := mustRecords(t, `[{"a":"x","b":"y"},{"a":"z"}]`)
		out := ToCSV(records)
		if !strings.Contains(out, "z,\n") && !strings.HasSuffix(out, "z,\n") {
			t.Errorf("absent column should render empty field:\n%s", out)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if out := ToCSV(nil); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})
}

func TestLookupColumn(t *testing.T) {
	record := mustRecords(t, `[{"strArtist":"Nina","life_span":{"begin":"1933"},"meta":{"country":"US"}}]`)[0]

	tc := []struct {
		name string
		want any
	}{
		{"strartist", "Nina"},
		{"meta_country", "US"},
		{"life_span_begin", "1933"},
		{"missing", nil},
	}
	for _, tt := range tc {
		if got := lookupColumn(record, tt.name); got != tt.want {
			t.Errorf("lookupColumn(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
