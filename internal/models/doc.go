// Package models defines domain entities and persistence interfaces for the artx enrichment tool.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Artist] : Artist identity resolved from MusicBrainz search
//   - [ArtistProfile] : Biography and imagery from TheAudioDB
//   - [Channel] : YouTube channel metadata for an artist
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedArtist] : Enriched artists with merged payloads
//   - [EnrichmentRecord] : Raw per-source API responses keyed by artist and source
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
