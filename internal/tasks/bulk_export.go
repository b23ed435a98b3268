package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/artx/internal/formatter"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/transform"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk dataset exports.
type BulkExportOpts struct {
	Formats       []string                               // Export formats: json, csv, sql, markdown (default: all)
	OutputDir     string                                 // Base output directory (default: artist_export_{epoch})
	BaseName      string                                 // Base filename for exports (default: artists)
	Dialect       string                                 // SQL dialect for the sql format (default: sqlite)
	BatchSize     int                                    // INSERT batch size for the sql format
	NumWorkers    int                                    // Concurrent workers (default: 5)
	RateLimit     float64                                // Image downloads per second (default: 5)
	IncludeImages bool                                   // Download artist thumbnails referenced in records
	FetchImage    func(url string) ([]byte, error)       // Image fetcher (default: formatter.DownloadImage)
}

// ExportFileResult records one file written (or attempted) during a bulk export.
type ExportFileResult struct {
	Kind    string `json:"kind"` // format name or "image"
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalJobs         int                `json:"total_jobs"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	Files             []ExportFileResult `json:"files"`
	ManifestPath      string             `json:"manifest_path,omitempty"`
}

type exportJob struct {
	kind     string // format name or "image"
	imageURL string // set for image jobs
	path     string
}

// BulkExport writes an enriched dataset to every requested format concurrently,
// optionally downloading artist thumbnails referenced by the records.
//
// A worker pool renders the files while image downloads are paced by a token
// bucket so a large dataset cannot hammer the image hosts. Partial failures
// are recorded per file and never abort the run; a manifest JSON summarizing
// the outcome is written last.
func (e *EnrichEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, records []any, opts BulkExportOpts) (*BulkExportResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to export", shared.ErrInvalidInput)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = []string{"json", "csv", "sql", "markdown"}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("artist_export_%d", time.Now().Unix())
	}
	if opts.BaseName == "" {
		opts.BaseName = "artists"
	}
	if opts.Dialect == "" {
		opts.Dialect = string(transform.DialectSQLite)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.FetchImage == nil {
		opts.FetchImage = formatter.DownloadImage
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := buildExportJobs(records, opts)

	result := &BulkExportResult{
		TotalJobs:       len(jobs),
		OutputDirectory: opts.OutputDir,
		Files:           make([]ExportFileResult, 0, len(jobs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobCh := make(chan exportJob, len(jobs))
	resultCh := make(chan ExportFileResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobCh, resultCh, records, limiter, opts)
	}

	for i, job := range jobs {
		e.sendProgress(prog, exportingUpdate(job.kind, i+1, len(jobs)))
		jobCh <- job
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	completed := 0
	for res := range resultCh {
		completed++
		result.Files = append(result.Files, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportDoneUpdate(res.Kind, res.Path, completed, len(jobs)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(res.Kind, completed, len(jobs), fmt.Errorf("%s", res.Error)))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// buildExportJobs expands the requested formats plus any thumbnail downloads
// into a flat job list.
func buildExportJobs(records []any, opts BulkExportOpts) []exportJob {
	var jobs []exportJob

	for _, format := range opts.Formats {
		ext := format
		if format == "markdown" {
			ext = "md"
		}
		jobs = append(jobs, exportJob{
			kind: format,
			path: filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", opts.BaseName, ext)),
		})
	}

	if !opts.IncludeImages {
		return jobs
	}

	for i, record := range records {
		m, ok := record.(map[string]any)
		if !ok {
			continue
		}
		url, ok := m["strArtistThumb"].(string)
		if !ok || url == "" {
			continue
		}
		jobs = append(jobs, exportJob{
			kind:     "image",
			imageURL: url,
			path:     filepath.Join(opts.OutputDir, fmt.Sprintf("thumb_%03d.jpg", i)),
		})
	}

	return jobs
}

// exportWorker renders export files from the jobs channel.
func (e *EnrichEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ExportFileResult,
	records []any,
	limiter *rate.Limiter,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.runExportJob(ctx, job, records, limiter, opts)
	}
}

// runExportJob renders a single export file or downloads a single image.
func (e *EnrichEngine) runExportJob(ctx context.Context, job exportJob, records []any, limiter *rate.Limiter, opts BulkExportOpts) ExportFileResult {
	result := ExportFileResult{Kind: job.kind, Path: job.path}

	fail := func(err error) ExportFileResult {
		result.Error = err.Error()
		return result
	}

	switch job.kind {
	case "image":
		if err := limiter.Wait(ctx); err != nil {
			return fail(err)
		}
		data, err := opts.FetchImage(job.imageURL)
		if err != nil {
			return fail(err)
		}
		if err := os.WriteFile(job.path, data, 0644); err != nil {
			return fail(err)
		}

	case "csv":
		if _, err := formatter.WriteCSVExport(records, job.path); err != nil {
			return fail(err)
		}

	case "sql":
		if _, err := formatter.WriteSQLExport(records, opts.BaseName, transform.Dialect(opts.Dialect), opts.BatchSize, job.path); err != nil {
			return fail(err)
		}

	case "markdown":
		if _, err := formatter.WriteMarkdownExport(records, opts.BaseName, job.path); err != nil {
			return fail(err)
		}

	case "json":
		if _, err := formatter.WriteJSONExport(records, job.path); err != nil {
			return fail(err)
		}

	default:
		return fail(fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, job.kind))
	}

	result.Success = true
	return result
}
