// package formatter exports artist record datasets to various formats (JSON, CSV, SQL, Markdown)
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/transform"
)

// ExportToJSON renders records as a pretty-printed JSON array.
func ExportToJSON(records []any) ([]byte, error) {
	return shared.MarshalJSON(records, true)
}

// ExportToCSV renders records as CSV with columns derived from the first record.
func ExportToCSV(records []any) ([]byte, error) {
	out := transform.ToCSV(records)
	if out == "" && len(records) > 0 {
		return nil, fmt.Errorf("%w: records have no tabular columns", shared.ErrInvalidInput)
	}
	return []byte(out), nil
}

// ExportToSQL renders records as CREATE TABLE plus INSERT statements for the dialect.
func ExportToSQL(records []any, table string, dialect transform.Dialect, batchSize int) ([]byte, error) {
	out, err := transform.ToSQL(records, table, dialect, batchSize)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// ExportToMarkdown renders an artist-table summary of the dataset.
//
// One row per record with the most recognizable fields (name, country, genre,
// year). Records missing a field render an empty cell.
func ExportToMarkdown(records []any, title string) []byte {
	var buf bytes.Buffer

	if title == "" {
		title = "Artists"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Records**: %d\n\n", len(records)))

	if len(records) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Artist | Country | Genre | Formed |\n")
	buf.WriteString("|---|--------|---------|-------|--------|\n")

	for i, record := range records {
		m, ok := record.(map[string]any)
		if !ok {
			buf.WriteString(fmt.Sprintf("| %d | %v | | | |\n", i+1, record))
			continue
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1,
			cell(m, "artistName", "strArtist", "name"),
			cell(m, "country", "strCountryCode"),
			cell(m, "strGenre", "genre"),
			cell(m, "intFormedYear"),
		))
	}

	return buf.Bytes()
}

// cell returns the first present field formatted for a Markdown table cell.
func cell(record map[string]any, fields ...string) string {
	for _, field := range fields {
		if v, ok := record[field]; ok && v != nil {
			switch n := v.(type) {
			case float64:
				return fmt.Sprintf("%d", int64(n))
			default:
				return fmt.Sprintf("%v", v)
			}
		}
	}
	return ""
}

// WriteJSONExport writes the dataset as a JSON file and returns the path written.
func WriteJSONExport(records []any, path string) (string, error) {
	data, err := ExportToJSON(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}
	return path, nil
}

// WriteCSVExport writes the dataset as a CSV file and returns the path written.
func WriteCSVExport(records []any, path string) (string, error) {
	data, err := ExportToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}

// WriteSQLExport writes the dataset as a SQL script and returns the path written.
func WriteSQLExport(records []any, table string, dialect transform.Dialect, batchSize int, path string) (string, error) {
	data, err := ExportToSQL(records, table, dialect, batchSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write SQL file: %w", err)
	}
	return path, nil
}

// WriteMarkdownExport writes the dataset summary as a Markdown file and returns the path written.
func WriteMarkdownExport(records []any, title, path string) (string, error) {
	data := ExportToMarkdown(records, title)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return path, nil
}

// WriteBulkExportManifest writes a JSON summary of a bulk export run.
func WriteBulkExportManifest(result any, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
