package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/desertthunder/artx/internal/shared"
	"github.com/desertthunder/artx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// progressBufferSize is sized so the engine rarely drops updates even when
// terminal output is slow.
const progressBufferSize = 50

// logProgress drains a progress channel into the logger until it closes.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate, wg *sync.WaitGroup) {
	defer wg.Done()
	for update := range progress {
		r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
	}
}

// EnrichRun enriches a list of artist names through every configured source.
func (r *Runner) EnrichRun(ctx context.Context, cmd *cli.Command) error {
	names := cmd.StringArgs("names")

	if file := cmd.String("file"); file != "" {
		fromFile, err := readNamesFile(file)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}

	var cache tasks.Cacher
	if !cmd.Bool("no-cache") {
		adapter, db, err := r.openCache()
		if err != nil {
			r.logger.Warn("enrichment cache unavailable", "error", err)
		} else {
			defer db.Close()
			cache = adapter
		}
	}

	engine := r.engine(cache)

	progress := make(chan tasks.ProgressUpdate, progressBufferSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go r.logProgress(progress, &wg)

	if playlist := cmd.String("playlist"); playlist != "" {
		imported, err := engine.ImportPlaylist(ctx, progress, playlist)
		if err != nil {
			close(progress)
			wg.Wait()
			return err
		}
		names = append(names, imported...)
	}

	result, err := engine.Run(ctx, progress, names)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := shared.WriteRecords(output, result.Records); err != nil {
			return err
		}
		r.logger.Info("records written", "path", output, "count", len(result.Records))
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Records, true)
	}

	r.writePlainHeader("Enrichment Summary")
	r.writePlain("Artists: %d\nEnriched: %d\nFailed: %d\n", result.TotalArtists, result.EnrichedCount, result.FailedCount)

	for _, artist := range result.Artists {
		marker := "✓"
		if len(artist.Sources) == 0 {
			marker = "✗"
		}
		r.writePlain("%s %s (sources: %s)\n", marker, artist.Name, strings.Join(artist.Sources, ", "))
		for source, message := range artist.Errors {
			r.writePlain("    %s: %s\n", source, message)
		}
	}

	return nil
}

// EnrichImport extracts artist names from a YouTube playlist.
func (r *Runner) EnrichImport(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.StringArg("playlist")
	if playlist == "" {
		return fmt.Errorf("%w: playlist URL or ID is required", shared.ErrInvalidArgument)
	}

	engine := r.engine(nil)

	names, err := engine.ImportPlaylist(ctx, nil, playlist)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(names, true)
	}

	r.writePlainln("Found %d artists:", len(names))
	for _, name := range names {
		r.writePlain("  %s\n", name)
	}
	return nil
}

// EnrichExport writes an enriched dataset to every requested format.
func (r *Runner) EnrichExport(ctx context.Context, cmd *cli.Command) error {
	records, err := shared.ReadRecords(cmd.String("input"))
	if err != nil {
		return err
	}

	engine := r.engine(nil)

	progress := make(chan tasks.ProgressUpdate, progressBufferSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go r.logProgress(progress, &wg)

	result, err := engine.BulkExport(ctx, progress, records, tasks.BulkExportOpts{
		Formats:       cmd.StringSlice("formats"),
		OutputDir:     cmd.String("output-dir"),
		BaseName:      cmd.String("name"),
		Dialect:       cmd.String("dialect"),
		BatchSize:     int(cmd.Int("batch-size")),
		NumWorkers:    int(cmd.Int("workers")),
		IncludeImages: cmd.Bool("images"),
	})
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainHeader("Export Summary")
	r.writePlain("Output: %s\nJobs: %d\nSucceeded: %d\nFailed: %d\n",
		result.OutputDirectory, result.TotalJobs, result.SuccessfulExports, result.FailedExports)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return nil
}

// readNamesFile reads artist names from a file, one per line, skipping blanks.
func readNamesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names, nil
}
