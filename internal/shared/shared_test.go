package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeArtistKey(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic normalization",
			input: "Boards of Canada",
			want:  "boards of canada",
		},
		{
			name:  "extra whitespace",
			input: "  Boards   of  Canada  ",
			want:  "boards of canada",
		},
		{
			name:  "mixed case",
			input: "BoArDs Of CaNaDa",
			want:  "boards of canada",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeArtistKey(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeArtistKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tc := []struct {
		name  string
		input int
		want  string
	}{
		{name: "bytes", input: 512, want: "512 B"},
		{name: "kilobytes", input: 1536, want: "1.5 KB"},
		{name: "megabytes", input: 2 * 1024 * 1024, want: "2.0 MB"},
		{name: "gigabytes", input: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
		{name: "zero", input: 0, want: "0 B"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.input)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 100); got != "short" {
		t.Errorf("expected unmodified string, got %q", got)
	}

	long := ""
	for range 30 {
		long += "abcde"
	}
	got := TruncateString(long, 100)
	if len([]rune(got)) != 103 {
		t.Errorf("expected 100 runes plus ellipsis, got %d", len([]rune(got)))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("expected trailing ellipsis, got %q", got[len(got)-3:])
	}
}

func TestReadRecords(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("array file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "array.json")
		os.WriteFile(path, []byte(`[{"artistName":"A"},{"artistName":"B"}]`), 0644)

		records, err := ReadRecords(path)
		if err != nil {
			t.Fatalf("ReadRecords failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records, got %d", len(records))
		}
	})

	t.Run("single object file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "single.json")
		os.WriteFile(path, []byte(`{"artistName":"A"}`), 0644)

		records, err := ReadRecords(path)
		if err != nil {
			t.Fatalf("ReadRecords failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.json")
		os.WriteFile(path, []byte(`{not json`), 0644)

		if _, err := ReadRecords(path); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadRecords(filepath.Join(tmpDir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestWriteRecords(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	records := []any{map[string]any{"artistName": "A"}}
	if err := WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	loaded, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected 1 record, got %d", len(loaded))
	}
}
