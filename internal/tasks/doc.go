// Package tasks orchestrates artist enrichment over the upstream data sources with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Run] : Full enrichment of a batch of artist names
//     - Resolves identity via MusicBrainz (MBID, country, tags)
//     - Fetches biography and imagery via TheAudioDB
//     - Fetches channel metadata via YouTube
//     - Per-source failures are recorded per artist and never abort the batch
//
//  2. [Engine.ImportPlaylist] : YouTube playlist to artist list
//     - Parses playlist URLs or bare IDs
//     - Extracts artist names from "Artist - Title" video titles
//     - Strips featured-artist suffixes and "- Topic" channel decorations
//     - Preserves first-appearance order, drops duplicates
//
//  3. [Engine.Dump] : Probe every configured source base endpoint
//     - Reports status and raw JSON for reachable sources
//     - Collects failures without aborting
//
// [EnrichEngine.BulkExport] additionally renders a dataset to every requested
// format (json, csv, sql, markdown) through a worker pool, with token-bucket
// pacing for thumbnail downloads and a manifest summarizing the run.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Caching
//
// The optional [Cacher] interface persists raw per-source payloads between runs
// (repositories.CacheAdapter). Cache write failures are ignored so persistence
// problems never disrupt an enrichment run.
package tasks
