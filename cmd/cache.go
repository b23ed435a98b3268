package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/artx/internal/repositories"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheList lists cached enrichment payloads, optionally filtered by source or artist.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	r.applyConfigFlag(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if source := cmd.String("source"); source != "" {
		criteria["source"] = source
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist_key"] = shared.NormalizeArtistKey(artist)
	}

	repo := repositories.NewEnrichmentCacheRepository(db)
	records, err := repo.List(criteria)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Enrichment Cache (%d entries)", len(records)))
	for _, record := range records {
		r.writePlain("%-30s %-12s %s  (%s)\n",
			record.ArtistKey(),
			record.Source(),
			shared.FormatBytes(len(record.PayloadJSON())),
			record.UpdatedAt().Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// CacheClear removes all cached enrichment payloads.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	r.applyConfigFlag(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewEnrichmentCacheRepository(db)
	cleared, err := repo.Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cache cleared", "entries", cleared)
	return r.writePlain("✓ Cleared %d cache entries\n", cleared)
}
