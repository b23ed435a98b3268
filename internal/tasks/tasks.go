// package tasks implements artist enrichment operations over the upstream data sources.
//
// The core abstraction is EnrichEngine, which orchestrates per-artist enrichment runs,
// playlist imports, and source status dumps.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/artx/internal/services"
	"github.com/desertthunder/artx/internal/shared"
)

// ArtistResult captures one artist's enrichment outcome across all sources.
type ArtistResult struct {
	Name    string            // Input artist name
	Record  map[string]any    // Merged record map from contributing sources
	Sources []string          // Sources that contributed fields
	Cached  []string          // Sources served from the local cache
	Errors  map[string]string // Per-source failure messages
}

// EnrichRunResult contains all data from a full enrichment run.
type EnrichRunResult struct {
	Artists       []ArtistResult // Per-artist outcomes in input order
	Records       []any          // Merged record maps in input order, ready for transformation
	TotalArtists  int            // Number of input names
	EnrichedCount int            // Artists with at least one contributing source
	FailedCount   int            // Artists with zero contributing sources
}

// EndpointResult represents the result of probing a single API endpoint.
type EndpointResult struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Status   int    `json:"status,omitempty"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DumpResult contains the status report across all configured sources.
type DumpResult struct {
	Statuses []EndpointResult `json:"statuses"`
	Errors   []EndpointResult `json:"errors,omitempty"`
}

// Engine defines the artist enrichment operations.
type Engine interface {
	// Run enriches each named artist through every source, tolerating per-source failures.
	Run(ctx context.Context, progress chan<- ProgressUpdate, names []string) (*EnrichRunResult, error)

	// ImportPlaylist extracts an order-preserving unique artist list from a YouTube playlist.
	ImportPlaylist(ctx context.Context, progress chan<- ProgressUpdate, rawURL string) ([]string, error)

	// Dump probes each configured source's base endpoint and reports reachability.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)
}

// Cacher persists raw per-source payloads between runs.
// Implemented by repositories.CacheAdapter.
type Cacher interface {
	Lookup(artistName, source string) (map[string]any, bool)
	Store(artistName, source string, payload map[string]any) error
}

// PlaylistLister retrieves playlist entries for artist extraction.
// Implemented by services.YouTubeService.
type PlaylistLister interface {
	PlaylistItems(ctx context.Context, playlistID string) ([]services.PlaylistItem, error)
}

// APIClient defines the interface for raw GET requests during dumps.
type APIClient interface {
	Get(ctx context.Context, path string, headers map[string]string) (*services.APIResponse, error)
}

// DumpTarget pairs a source name with the raw client and path probed during Dump.
type DumpTarget struct {
	Name   string
	Path   string
	Client APIClient
}

// EnrichEngine implements Engine over an ordered list of sources.
// Source order determines field precedence in merged records.
type EnrichEngine struct {
	sources   []services.Enricher
	playlists PlaylistLister
	targets   []DumpTarget
	cache     Cacher
}

// NewEnrichEngine creates an EnrichEngine. The playlist lister, dump targets,
// and cache are each optional; operations that need a missing dependency fail
// with [shared.ErrServiceUnavailable].
func NewEnrichEngine(sources []services.Enricher, playlists PlaylistLister, targets []DumpTarget, cache Cacher) *EnrichEngine {
	return &EnrichEngine{
		sources:   sources,
		playlists: playlists,
		targets:   targets,
		cache:     cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *EnrichEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run enriches every named artist through every source.
//
// Per-source failures are recorded on the artist result and never abort the
// batch; only context cancellation stops a run early. Each source's payload
// is cached after a live fetch and served from cache on repeat runs.
func (e *EnrichEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, names []string) (*EnrichRunResult, error) {
	if len(e.sources) == 0 {
		return nil, fmt.Errorf("%w: no enrichment sources configured", shared.ErrServiceUnavailable)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no artist names provided", shared.ErrInvalidInput)
	}

	result := &EnrichRunResult{
		TotalArtists: len(names),
		Artists:      make([]ArtistResult, 0, len(names)),
		Records:      make([]any, 0, len(names)),
	}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		artist := e.enrichOne(ctx, progress, name, i+1, len(names))
		result.Artists = append(result.Artists, artist)
		result.Records = append(result.Records, artist.Record)

		if len(artist.Sources) > 0 {
			result.EnrichedCount++
		} else {
			result.FailedCount++
		}
	}

	return result, nil
}

// enrichOne runs every source for one artist and merges the contributions.
// Earlier sources win field conflicts.
func (e *EnrichEngine) enrichOne(ctx context.Context, progress chan<- ProgressUpdate, name string, step, total int) ArtistResult {
	artist := ArtistResult{
		Name:   name,
		Record: map[string]any{"artistName": name},
		Errors: map[string]string{},
	}

	for _, source := range e.sources {
		if ctx.Err() != nil {
			return artist
		}

		payload, cached := e.cachedPayload(name, source.Name())
		if cached {
			e.sendProgress(progress, cachedUpdate(source.Name(), step, total, name))
		} else {
			e.sendProgress(progress, enrichingUpdate(source.Name(), step, total, name))

			var err error
			payload, err = source.EnrichArtist(ctx, name)
			if err != nil {
				artist.Errors[source.Name()] = err.Error()
				e.sendProgress(progress, sourceFailedUpdate(source.Name(), step, total, name, err))
				continue
			}

			if e.cache != nil {
				// cache failures never disrupt a run
				_ = e.cache.Store(name, source.Name(), payload)
			}
		}

		for key, value := range payload {
			if _, exists := artist.Record[key]; !exists {
				artist.Record[key] = value
			}
		}

		artist.Sources = append(artist.Sources, source.Name())
		if cached {
			artist.Cached = append(artist.Cached, source.Name())
		}
	}

	return artist
}

func (e *EnrichEngine) cachedPayload(name, source string) (map[string]any, bool) {
	if e.cache == nil {
		return nil, false
	}
	return e.cache.Lookup(name, source)
}

// ImportPlaylist fetches a YouTube playlist and extracts artist names from
// its video titles, preserving first-appearance order and dropping duplicates.
func (e *EnrichEngine) ImportPlaylist(ctx context.Context, progress chan<- ProgressUpdate, rawURL string) ([]string, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: YouTube service not initialized", shared.ErrServiceUnavailable)
	}

	playlistID, err := services.ParsePlaylistURL(rawURL)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchingPlaylistUpdate(playlistID))

	items, err := e.playlists.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch playlist: %v", shared.ErrPlaylistNotFound, err)
	}

	seen := make(map[string]struct{})
	var names []string

	for _, item := range items {
		name := ExtractArtistName(item.Title, item.ChannelTitle)
		if name == "" {
			continue
		}
		key := shared.NormalizeArtistKey(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}

	e.sendProgress(progress, extractedArtistsUpdate(len(names), len(items)))
	return names, nil
}

// ExtractArtistName derives an artist name from a video title, falling back
// to the owning channel. Titles shaped "Artist - Title" yield the left side;
// featured-artist suffixes and "- Topic" channel decorations are stripped.
func ExtractArtistName(title, channelTitle string) string {
	name := ""
	if idx := strings.Index(title, " - "); idx > 0 {
		name = title[:idx]
	} else if channelTitle != "" {
		name = strings.TrimSuffix(channelTitle, " - Topic")
	}

	name = stripFeatured(name)
	return strings.TrimSpace(name)
}

var featuredMarkers = []string{" feat.", " feat ", " ft.", " ft ", " featuring "}

func stripFeatured(name string) string {
	lower := strings.ToLower(name)
	cut := len(name)
	for _, marker := range featuredMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	if idx := strings.Index(name, "("); idx >= 0 && idx < cut {
		cut = idx
	}
	return name[:cut]
}

// Dump probes every configured source base endpoint and reports reachability.
func (e *EnrichEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if len(e.targets) == 0 {
		return nil, fmt.Errorf("%w: no dump targets configured", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Statuses: []EndpointResult{},
		Errors:   []EndpointResult{},
	}

	for i, target := range e.targets {
		e.sendProgress(progress, statusUpdate(target.Name, i+1, len(e.targets)))

		entry := EndpointResult{Name: target.Name, Endpoint: target.Path}

		resp, err := target.Client.Get(ctx, target.Path, nil)
		if err != nil {
			entry.Error = err.Error()
			result.Errors = append(result.Errors, entry)
			continue
		}

		entry.Status = resp.StatusCode
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			entry.Error = fmt.Sprintf("status %d", resp.StatusCode)
			result.Errors = append(result.Errors, entry)
			continue
		}

		if resp.IsJSON {
			entry.Data = resp.JSONData
		}
		result.Statuses = append(result.Statuses, entry)
	}

	return result, nil
}
