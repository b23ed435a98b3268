// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ArtistRepository] : Enriched artist persistence with MBID and name lookups
//   - [EnrichmentCacheRepository] : Raw per-source API response caching keyed by artist and source
//   - [CacheAdapter] : Narrow cache surface consumed by the enrichment engine
//
// Sequence numbers provide stable, human-readable ordering (e.g., artist #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
