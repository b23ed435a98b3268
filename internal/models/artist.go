package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/artx/internal/shared"
)

// Artist is the identity DTO resolved from MusicBrainz search results.
type Artist struct {
	Name           string   `json:"artistName"`
	MBID           string   `json:"mbid,omitempty"`
	Score          int      `json:"score,omitempty"`
	Country        string   `json:"country,omitempty"`
	Disambiguation string   `json:"disambiguation,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// ArtistProfile carries biography and imagery fields from TheAudioDB.
type ArtistProfile struct {
	Name       string `json:"strArtist"`
	Biography  string `json:"strBiographyEN,omitempty"`
	Genre      string `json:"strGenre,omitempty"`
	Style      string `json:"strStyle,omitempty"`
	Mood       string `json:"strMood,omitempty"`
	Thumb      string `json:"strArtistThumb,omitempty"`
	Logo       string `json:"strArtistLogo,omitempty"`
	Website    string `json:"strWebsite,omitempty"`
	FormedYear int    `json:"intFormedYear,omitempty"`
}

// Channel is the YouTube channel DTO attached to an enriched artist.
type Channel struct {
	ID              string `json:"channelId"`
	Title           string `json:"channelTitle"`
	Description     string `json:"description,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	SubscriberCount uint64 `json:"subscriberCount,omitempty"`
}

// PersistedArtist is a database-backed enriched artist with the merged payload from all sources.
type PersistedArtist struct {
	id        string
	sequence  int
	name      string
	mbid      string
	country   string
	genre     string
	payload   string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedArtist creates a PersistedArtist from an identity DTO and the merged enrichment payload.
// The ID is assigned by the repository on Create.
func NewPersistedArtist(sequence int, dto Artist, payload map[string]any) (*PersistedArtist, error) {
	artist := &PersistedArtist{
		sequence:  sequence,
		name:      dto.Name,
		mbid:      dto.MBID,
		country:   dto.Country,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	if err := artist.SetPayload(payload); err != nil {
		return nil, err
	}
	return artist, nil
}

func (a *PersistedArtist) ID() string            { return a.id }
func (a *PersistedArtist) Sequence() int         { return a.sequence }
func (a *PersistedArtist) Name() string          { return a.name }
func (a *PersistedArtist) MBID() string          { return a.mbid }
func (a *PersistedArtist) Country() string       { return a.country }
func (a *PersistedArtist) Genre() string         { return a.genre }
func (a *PersistedArtist) PayloadJSON() string   { return a.payload }
func (a *PersistedArtist) CreatedAt() time.Time  { return a.createdAt }
func (a *PersistedArtist) UpdatedAt() time.Time  { return a.updatedAt }
func (a *PersistedArtist) DeletedAt() *time.Time { return a.deletedAt }

func (a *PersistedArtist) SetID(id string)             { a.id = id }
func (a *PersistedArtist) SetName(name string)         { a.name = name }
func (a *PersistedArtist) SetGenre(genre string)       { a.genre = genre }
func (a *PersistedArtist) SetCreatedAt(t time.Time)    { a.createdAt = t }
func (a *PersistedArtist) SetUpdatedAt(t time.Time)    { a.updatedAt = t }
func (a *PersistedArtist) SetDeletedAt(t *time.Time)   { a.deletedAt = t }
func (a *PersistedArtist) SetMBID(mbid string)         { a.mbid = mbid }
func (a *PersistedArtist) SetCountry(country string)   { a.country = country }
func (a *PersistedArtist) SetPayloadJSON(data string)  { a.payload = data }

// SetPayload marshals the merged enrichment record for storage.
func (a *PersistedArtist) SetPayload(payload map[string]any) error {
	if payload == nil {
		a.payload = ""
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal artist payload: %w", err)
	}
	a.payload = string(data)
	return nil
}

// Payload unmarshals the stored enrichment record. A missing payload yields nil.
func (a *PersistedArtist) Payload() (map[string]any, error) {
	if a.payload == "" {
		return nil, nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(a.payload), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artist payload: %w", err)
	}
	return payload, nil
}

// Validate checks that the artist carries a name and well-formed payload.
func (a *PersistedArtist) Validate() error {
	if a.name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrInvalidInput)
	}
	if a.payload != "" && !json.Valid([]byte(a.payload)) {
		return fmt.Errorf("%w: artist payload is not valid JSON", shared.ErrInvalidInput)
	}
	return nil
}

// EnrichmentRecord is a raw per-source API response cached by normalized artist name and source.
type EnrichmentRecord struct {
	id        string
	sequence  int
	artistKey string
	source    string
	payload   string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewEnrichmentRecord creates a cache record for one artist/source pair.
func NewEnrichmentRecord(sequence int, artistKey, source string, payload map[string]any) (*EnrichmentRecord, error) {
	record := &EnrichmentRecord{
		sequence:  sequence,
		artistKey: artistKey,
		source:    source,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	if err := record.SetPayload(payload); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *EnrichmentRecord) ID() string            { return r.id }
func (r *EnrichmentRecord) Sequence() int         { return r.sequence }
func (r *EnrichmentRecord) ArtistKey() string     { return r.artistKey }
func (r *EnrichmentRecord) Source() string        { return r.source }
func (r *EnrichmentRecord) PayloadJSON() string   { return r.payload }
func (r *EnrichmentRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *EnrichmentRecord) UpdatedAt() time.Time  { return r.updatedAt }
func (r *EnrichmentRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *EnrichmentRecord) SetID(id string)            { r.id = id }
func (r *EnrichmentRecord) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *EnrichmentRecord) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *EnrichmentRecord) SetDeletedAt(t *time.Time)  { r.deletedAt = t }
func (r *EnrichmentRecord) SetPayloadJSON(data string) { r.payload = data }

// SetPayload marshals the raw source response for storage.
func (r *EnrichmentRecord) SetPayload(payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment payload: %w", err)
	}
	r.payload = string(data)
	return nil
}

// Payload unmarshals the stored source response.
func (r *EnrichmentRecord) Payload() (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(r.payload), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrichment payload: %w", err)
	}
	return payload, nil
}

// Validate checks that the cache key fields and payload are usable.
func (r *EnrichmentRecord) Validate() error {
	if r.artistKey == "" {
		return fmt.Errorf("%w: artist key is required", shared.ErrInvalidInput)
	}
	if r.source == "" {
		return fmt.Errorf("%w: source is required", shared.ErrInvalidInput)
	}
	if !json.Valid([]byte(r.payload)) {
		return fmt.Errorf("%w: enrichment payload is not valid JSON", shared.ErrInvalidInput)
	}
	return nil
}
