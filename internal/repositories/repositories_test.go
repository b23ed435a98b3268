package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newTestArtist(t *testing.T, name string, payload map[string]any) *models.PersistedArtist {
	t.Helper()
	artist, err := models.NewPersistedArtist(0, models.Artist{Name: name, Country: "US"}, payload)
	if err != nil {
		t.Fatalf("failed to build artist: %v", err)
	}
	return artist
}

func TestArtistRepository(t *testing.T) {
	t.Run("Create assigns id and sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina Simone", map[string]any{"genre": "Jazz"})

		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}
		if artist.ID() == "" {
			t.Error("artist ID should be set after creation")
		}
	})

	t.Run("Get round-trips payload", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina Simone", map[string]any{"genre": "Jazz"})
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		got, err := repo.Get(artist.ID())
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if got.Name() != "Nina Simone" {
			t.Errorf("name = %q", got.Name())
		}
		payload, err := got.Payload()
		if err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["genre"] != "Jazz" {
			t.Errorf("payload = %v", payload)
		}
	})

	t.Run("GetByMBID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina Simone", nil)
		artist.SetMBID("2944824d-4c26-476f-a981-be849081942f")
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		got, err := repo.GetByMBID("2944824d-4c26-476f-a981-be849081942f")
		if err != nil {
			t.Fatalf("failed to get artist by mbid: %v", err)
		}
		if got.ID() != artist.ID() {
			t.Error("mbid lookup returned wrong artist")
		}
	})

	t.Run("GetByName is case-insensitive", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "nina simone", nil)
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		got, err := repo.GetByName("Nina Simone")
		if err != nil {
			t.Fatalf("failed to get artist by name: %v", err)
		}
		if got.ID() != artist.ID() {
			t.Error("name lookup returned wrong artist")
		}
	})

	t.Run("GetByName collapses whitespace", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina  Simone ", nil)
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		got, err := repo.GetByName("nina simone")
		if err != nil {
			t.Fatalf("failed to get artist by name: %v", err)
		}
		if got.ID() != artist.ID() {
			t.Error("name lookup returned wrong artist")
		}

		renamed := newTestArtist(t, "Miles Davis", nil)
		if err := repo.Create(renamed); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}
		renamed.SetName("Miles  Dewey  Davis")
		if err := repo.Update(renamed); err != nil {
			t.Fatalf("failed to update artist: %v", err)
		}
		if _, err := repo.GetByName("miles dewey davis"); err != nil {
			t.Errorf("updated name lookup failed: %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina Simone", nil)
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		artist.SetGenre("Jazz")
		if err := repo.Update(artist); err != nil {
			t.Fatalf("failed to update artist: %v", err)
		}

		got, err := repo.Get(artist.ID())
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if got.Genre() != "Jazz" {
			t.Errorf("genre = %q after update", got.Genre())
		}
	})

	t.Run("Delete soft-deletes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := newTestArtist(t, "Nina Simone", nil)
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		if err := repo.Delete(artist.ID()); err != nil {
			t.Fatalf("failed to delete artist: %v", err)
		}
		if _, err := repo.Get(artist.ID()); !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound after delete, got %v", err)
		}
		if err := repo.Delete(artist.ID()); !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("double delete should report not found, got %v", err)
		}
	})

	t.Run("List filters and orders by sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		for _, name := range []string{"A", "B", "C"} {
			if err := repo.Create(newTestArtist(t, name, nil)); err != nil {
				t.Fatalf("failed to create artist %s: %v", name, err)
			}
		}

		artists, err := repo.List(map[string]any{"country": "US"})
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 3 {
			t.Fatalf("listed %d artists, want 3", len(artists))
		}
		for i := 1; i < len(artists); i++ {
			if artists[i-1].Sequence() >= artists[i].Sequence() {
				t.Error("list not ordered by sequence")
			}
		}

		none, err := repo.List(map[string]any{"country": "FR"})
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("country filter should exclude all, got %d", len(none))
		}
	})

	t.Run("duplicate mbid rejected", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		first := newTestArtist(t, "Nina Simone", nil)
		first.SetMBID("mbid-1")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		second := newTestArtist(t, "Other", nil)
		second.SetMBID("mbid-1")
		if err := repo.Create(second); err == nil {
			t.Error("expected UNIQUE constraint failure for duplicate mbid")
		}
	})
}

func TestEnrichmentCacheRepository(t *testing.T) {
	t.Run("Create and GetBySource", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEnrichmentCacheRepository(db)
		record, err := models.NewEnrichmentRecord(0, "nina simone", "musicbrainz", map[string]any{"mbid": "m1"})
		if err != nil {
			t.Fatalf("failed to build record: %v", err)
		}
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		got, err := repo.GetBySource("nina simone", "musicbrainz")
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		payload, err := got.Payload()
		if err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["mbid"] != "m1" {
			t.Errorf("payload = %v", payload)
		}
	})

	t.Run("unique per artist and source", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEnrichmentCacheRepository(db)
		first, _ := models.NewEnrichmentRecord(0, "nina simone", "musicbrainz", map[string]any{"v": 1.0})
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		dup, _ := models.NewEnrichmentRecord(0, "nina simone", "musicbrainz", map[string]any{"v": 2.0})
		if err := repo.Create(dup); err == nil {
			t.Error("expected UNIQUE constraint failure for duplicate key")
		}

		other, _ := models.NewEnrichmentRecord(0, "nina simone", "audiodb", map[string]any{"v": 2.0})
		if err := repo.Create(other); err != nil {
			t.Errorf("different source should insert: %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEnrichmentCacheRepository(db)
		for _, source := range []string{"musicbrainz", "audiodb", "youtube"} {
			record, _ := models.NewEnrichmentRecord(0, "nina simone", source, map[string]any{})
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create record: %v", err)
			}
		}

		cleared, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear cache: %v", err)
		}
		if cleared != 3 {
			t.Errorf("cleared = %d, want 3", cleared)
		}

		records, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("cache should be empty after clear, got %d", len(records))
		}
	})
}

func TestCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	adapter := NewCacheAdapter(NewEnrichmentCacheRepository(db))

	if _, ok := adapter.Lookup("Nina Simone", "musicbrainz"); ok {
		t.Error("empty cache should miss")
	}

	if err := adapter.Store("Nina  Simone", "musicbrainz", map[string]any{"mbid": "m1"}); err != nil {
		t.Fatalf("failed to store payload: %v", err)
	}

	payload, ok := adapter.Lookup("nina simone", "musicbrainz")
	if !ok {
		t.Fatal("normalized lookup should hit")
	}
	if payload["mbid"] != "m1" {
		t.Errorf("payload = %v", payload)
	}

	if err := adapter.Store("Nina Simone", "musicbrainz", map[string]any{"mbid": "m2"}); err != nil {
		t.Fatalf("failed to overwrite payload: %v", err)
	}
	payload, _ = adapter.Lookup("nina simone", "musicbrainz")
	if payload["mbid"] != "m2" {
		t.Errorf("store should replace previous entry, got %v", payload)
	}
}
