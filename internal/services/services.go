// package services defines interface Enricher for the upstream artist data sources
//
// MusicBrainz, TheAudioDB, YouTube Data API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/artx/internal/ratelimit"
	"github.com/desertthunder/artx/internal/shared"
)

// Source names used as cache keys and record provenance markers.
const (
	SourceMusicBrainz = "musicbrainz"
	SourceAudioDB     = "audiodb"
	SourceYouTube     = "youtube"
)

// Enricher is implemented by every upstream source that can contribute
// fields to an artist record.
type Enricher interface {
	// Name returns the source name (e.g., "musicbrainz")
	Name() string

	// EnrichArtist resolves an artist by name and returns the source's
	// contribution as a flat-mergeable record map. Returns
	// [shared.ErrArtistNotFound] when the source has no match.
	EnrichArtist(ctx context.Context, name string) (map[string]any, error)
}

// throttled admits a call through the service's rate limiter and waits for
// its outcome or context cancellation. The call itself is not cancelled once
// admitted; a cancelled waiter simply stops observing it.
func throttled(ctx context.Context, limiter *ratelimit.Limiter, call ratelimit.Call) (any, error) {
	outcomes := limiter.Enqueue(call)
	select {
	case outcome := <-outcomes:
		return outcome.Value, outcome.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// recordFromDTO converts a typed response into the map[string]any shape the
// transformation pipeline consumes, honoring the DTO's JSON tags.
func recordFromDTO(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to build record map: %w", err)
	}
	return record, nil
}

// getJSON performs a GET request and decodes the JSON response body into result.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", shared.ErrAPIRequest, resp.StatusCode, req.URL.Host)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
