package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/shared"
)

// EnrichmentCacheRepository implements models.Repository[*models.EnrichmentRecord]
// for raw per-source API responses.
//
// Responses are keyed by normalized artist name plus source so repeat runs can
// skip upstream calls entirely. The (artist_key, source) pair is UNIQUE.
type EnrichmentCacheRepository struct {
	db *sql.DB
}

// NewEnrichmentCacheRepository creates a new EnrichmentCacheRepository with the given database connection
func NewEnrichmentCacheRepository(db *sql.DB) *EnrichmentCacheRepository {
	return &EnrichmentCacheRepository{db: db}
}

// Create inserts a new [models.EnrichmentRecord] with generated ID and sequence
func (r *EnrichmentCacheRepository) Create(record *models.EnrichmentRecord) error {
	sequence, err := NextSequence(r.db, "enrichment_cache")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO enrichment_cache (id, sequence, artist_key, source, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.ArtistKey(),
		record.Source(),
		record.PayloadJSON(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrichment record: %w", err)
	}

	return nil
}

// Get retrieves a cache record by ID, excluding soft-deleted records
func (r *EnrichmentCacheRepository) Get(id string) (*models.EnrichmentRecord, error) {
	query := `
		SELECT id, sequence, artist_key, source, payload, created_at, updated_at, deleted_at
		FROM enrichment_cache
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySource retrieves the cached response for one artist/source pair
func (r *EnrichmentCacheRepository) GetBySource(artistKey, source string) (*models.EnrichmentRecord, error) {
	query := `
		SELECT id, sequence, artist_key, source, payload, created_at, updated_at, deleted_at
		FROM enrichment_cache
		WHERE artist_key = ? AND source = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, artistKey, source))
}

// Update modifies an existing cache record in the database
func (r *EnrichmentCacheRepository) Update(record *models.EnrichmentRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE enrichment_cache
		SET payload = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, record.PayloadJSON(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update enrichment record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("enrichment record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a cache record by setting deleted_at
func (r *EnrichmentCacheRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE enrichment_cache
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrichment record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("enrichment record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cache records matching the given criteria, excluding soft-deleted records
func (r *EnrichmentCacheRepository) List(criteria map[string]any) ([]*models.EnrichmentRecord, error) {
	query := `
		SELECT id, sequence, artist_key, source, payload, created_at, updated_at, deleted_at
		FROM enrichment_cache
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artistKey, ok := criteria["artist_key"].(string); ok && artistKey != "" {
		query += " AND artist_key = ?"
		args = append(args, artistKey)
	}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrichment cache: %w", err)
	}
	defer rows.Close()

	var records []*models.EnrichmentRecord
	for rows.Next() {
		record, err := scanEnrichmentRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Clear soft-deletes every live cache record and returns the count removed
func (r *EnrichmentCacheRepository) Clear() (int, error) {
	result, err := r.db.Exec("UPDATE enrichment_cache SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear enrichment cache: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

func (r *EnrichmentCacheRepository) scanOne(row *sql.Row) (*models.EnrichmentRecord, error) {
	record, err := scanEnrichmentRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enrichment record not found")
	}
	return record, err
}

func scanEnrichmentRecord(scan func(...any) error) (*models.EnrichmentRecord, error) {
	var (
		id        string
		sequence  int
		artistKey string
		source    string
		payload   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &artistKey, &source, &payload, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan enrichment record: %w", err)
	}

	record, err := models.NewEnrichmentRecord(sequence, artistKey, source, nil)
	if err != nil {
		return nil, err
	}
	record.SetID(id)
	record.SetPayloadJSON(payload)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}

// CacheAdapter exposes the enrichment cache to the task layer as a plain
// lookup/store pair. Duplicate stores are silently upgraded to updates.
type CacheAdapter struct {
	repo *EnrichmentCacheRepository
}

// NewCacheAdapter creates a new CacheAdapter with the given repository
func NewCacheAdapter(repo *EnrichmentCacheRepository) *CacheAdapter {
	return &CacheAdapter{repo: repo}
}

// Lookup returns the cached payload for one artist/source pair, with a hit flag.
// The artist name is normalized before lookup.
func (a *CacheAdapter) Lookup(artistName, source string) (map[string]any, bool) {
	record, err := a.repo.GetBySource(shared.NormalizeArtistKey(artistName), source)
	if err != nil {
		return nil, false
	}
	payload, err := record.Payload()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Store caches a source payload for an artist, replacing any previous entry.
func (a *CacheAdapter) Store(artistName, source string, payload map[string]any) error {
	key := shared.NormalizeArtistKey(artistName)

	if existing, err := a.repo.GetBySource(key, source); err == nil && existing != nil {
		if err := existing.SetPayload(payload); err != nil {
			return err
		}
		return a.repo.Update(existing)
	}

	record, err := models.NewEnrichmentRecord(0, key, source, payload)
	if err != nil {
		return err
	}

	if err := a.repo.Create(record); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache enrichment payload: %w", err)
	}

	return nil
}
