package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/repositories"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistsSave persists enriched records to the local database.
//
// Records already present (matched by MusicBrainz ID, falling back to name)
// are skipped rather than duplicated.
func (r *Runner) ArtistsSave(ctx context.Context, cmd *cli.Command) error {
	r.applyConfigFlag(cmd)

	records, err := shared.ReadRecords(cmd.String("input"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewArtistRepository(db)

	saved := 0
	skipped := 0
	for _, raw := range records {
		record, ok := raw.(map[string]any)
		if !ok {
			skipped++
			continue
		}

		artist, err := artistFromRecord(record)
		if err != nil {
			r.logger.Warn("skipping record", "error", err)
			skipped++
			continue
		}

		if exists(repo, artist) {
			skipped++
			continue
		}

		if err := repo.Create(artist); err != nil {
			r.logger.Warn("failed to save artist", "name", artist.Name(), "error", err)
			skipped++
			continue
		}
		saved++
	}

	r.writePlain("✓ Saved %d artists (%d skipped)\n", saved, skipped)
	return nil
}

// ArtistsList lists persisted artists, optionally filtered by country or genre.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	r.applyConfigFlag(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if country := cmd.String("country"); country != "" {
		criteria["country"] = country
	}
	if genre := cmd.String("genre"); genre != "" {
		criteria["genre"] = genre
	}

	repo := repositories.NewArtistRepository(db)
	artists, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]any, 0, len(artists))
		for _, artist := range artists {
			payload, err := artist.Payload()
			if err != nil {
				r.logger.Warn("unreadable payload", "id", artist.ID(), "error", err)
				continue
			}
			records = append(records, payload)
		}
		return r.writeJSON(records, true)
	}

	r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(artists)))
	for _, artist := range artists {
		line := artist.Name()
		if artist.Country() != "" {
			line = fmt.Sprintf("%s [%s]", line, artist.Country())
		}
		if artist.Genre() != "" {
			line = fmt.Sprintf("%s (%s)", line, artist.Genre())
		}
		r.writePlain("%4d  %s\n", artist.Sequence(), line)
	}
	return nil
}

// artistFromRecord builds a persistent artist entity from a merged record map.
func artistFromRecord(record map[string]any) (*models.PersistedArtist, error) {
	name := stringField(record, "artistName", "name", "strArtist")
	if name == "" {
		return nil, fmt.Errorf("%w: record has no artist name", shared.ErrInvalidInput)
	}

	dto := models.Artist{
		Name:    name,
		MBID:    stringField(record, "mbid"),
		Country: stringField(record, "country"),
	}

	artist, err := models.NewPersistedArtist(0, dto, record)
	if err != nil {
		return nil, err
	}

	if genre := stringField(record, "strGenre"); genre != "" {
		artist.SetGenre(genre)
	}
	return artist, nil
}

// exists reports whether an equivalent artist row is already persisted.
func exists(repo *repositories.ArtistRepository, artist *models.PersistedArtist) bool {
	if mbid := artist.MBID(); mbid != "" {
		if _, err := repo.GetByMBID(mbid); err == nil {
			return true
		}
	}
	if _, err := repo.GetByName(artist.Name()); err == nil {
		return true
	}
	return false
}

// stringField returns the first non-empty string value among the given keys.
func stringField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := record[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
