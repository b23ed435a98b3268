package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/shared"
)

// ArtistRepository implements models.Repository[*models.PersistedArtist] for enriched artists.
//
// Artists are stored with their merged enrichment payload so a run's output can
// be re-exported without hitting the upstream APIs again. MBID uniqueness is
// enforced for non-deleted rows.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.PersistedArtist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.PersistedArtist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	artist.SetID(id)

	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, name, name_key, mbid, country, genre, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		artist.Name(),
		shared.NormalizeArtistKey(artist.Name()),
		nullable(artist.MBID()),
		nullable(artist.Country()),
		nullable(artist.Genre()),
		nullable(artist.PayloadJSON()),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID, excluding soft-deleted artists
func (r *ArtistRepository) Get(id string) (*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, name, mbid, country, genre, payload, created_at, updated_at, deleted_at
		FROM artists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByMBID retrieves an artist by MusicBrainz identifier
func (r *ArtistRepository) GetByMBID(mbid string) (*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, name, mbid, country, genre, payload, created_at, updated_at, deleted_at
		FROM artists
		WHERE mbid = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, mbid))
}

// GetByName retrieves the first artist matching a normalized name.
//
// Lookups go through the name_key column, which holds
// [shared.NormalizeArtistKey] of the stored name, so casing and spacing
// differences never hide a match.
func (r *ArtistRepository) GetByName(name string) (*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, name, mbid, country, genre, payload, created_at, updated_at, deleted_at
		FROM artists
		WHERE name_key = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, shared.NormalizeArtistKey(name)))
}

// Update modifies an existing artist in the database
func (r *ArtistRepository) Update(artist *models.PersistedArtist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, name_key = ?, mbid = ?, country = ?, genre = ?, payload = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		artist.Name(),
		shared.NormalizeArtistKey(artist.Name()),
		nullable(artist.MBID()),
		nullable(artist.Country()),
		nullable(artist.Genre()),
		nullable(artist.PayloadJSON()),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artist.ID())
	}

	return nil
}

// Delete soft-deletes an artist by setting deleted_at
func (r *ArtistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE artists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotFound, id)
	}

	return nil
}

// List retrieves all artists matching the given criteria, excluding soft-deleted artists
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, name, mbid, country, genre, payload, created_at, updated_at, deleted_at
		FROM artists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if country, ok := criteria["country"].(string); ok && country != "" {
		query += " AND country = ?"
		args = append(args, country)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.PersistedArtist
	for rows.Next() {
		artist, err := scanArtist(rows.Scan)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

func (r *ArtistRepository) scanOne(row *sql.Row) (*models.PersistedArtist, error) {
	artist, err := scanArtist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrArtistNotFound
	}
	return artist, err
}

// scanArtist rebuilds a [models.PersistedArtist] from one row's scan function
func scanArtist(scan func(...any) error) (*models.PersistedArtist, error) {
	var (
		id        string
		sequence  int
		name      string
		mbid      sql.NullString
		country   sql.NullString
		genre     sql.NullString
		payload   sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &name, &mbid, &country, &genre, &payload, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	dto := models.Artist{
		Name:    name,
		MBID:    mbid.String,
		Country: country.String,
	}

	artist, err := models.NewPersistedArtist(sequence, dto, nil)
	if err != nil {
		return nil, err
	}
	artist.SetID(id)
	artist.SetGenre(genre.String)
	artist.SetPayloadJSON(payload.String)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		artist.SetDeletedAt(&deletedAt.Time)
	}

	return artist, nil
}

// nullable maps empty strings to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
