// MusicBrainz WS/2 [Enricher] implementation
//
// Response types based on https://musicbrainz.org/doc/MusicBrainz_API/Search
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/ratelimit"
	"github.com/desertthunder/artx/internal/shared"
)

const mbBaseURL = "https://musicbrainz.org/ws/2"

// searchResultLimit bounds the candidate list per query; only the best
// score survives anyway.
const searchResultLimit = 5

type mbLifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
	Ended bool   `json:"ended"`
}

type mbTag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MBArtist represents an artist entry in MusicBrainz search results.
type MBArtist struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	SortName       string     `json:"sort-name"`
	Score          int        `json:"score"`
	Country        string     `json:"country"`
	Disambiguation string     `json:"disambiguation"`
	Type           string     `json:"type"`
	LifeSpan       mbLifeSpan `json:"life-span"`
	Tags           []mbTag    `json:"tags"`
}

type mbSearchResponse struct {
	Count   int        `json:"count"`
	Artists []MBArtist `json:"artists"`
}

// MusicBrainzService implements [Enricher] against the MusicBrainz WS/2 API.
//
// MusicBrainz requires a descriptive User-Agent with contact information and
// tolerates roughly one request per second per client; the default limit of
// 1 call per 1100 ms stays under that.
type MusicBrainzService struct {
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewMusicBrainzService creates a MusicBrainz client with its own rate limiter.
func NewMusicBrainzService(cfg shared.MusicBrainzConfig, limit shared.LimitConfig, client *http.Client) (*MusicBrainzService, error) {
	if cfg.AppName == "" || cfg.Contact == "" {
		return nil, fmt.Errorf("%w: musicbrainz app_name and contact are required", shared.ErrMissingCredential)
	}
	if client == nil {
		client = http.DefaultClient
	}

	limiter, err := ratelimit.New(limit.MaxCalls, limit.Window())
	if err != nil {
		return nil, err
	}

	return &MusicBrainzService{
		userAgent:  fmt.Sprintf("%s ( %s )", cfg.AppName, cfg.Contact),
		httpClient: client,
		limiter:    limiter,
	}, nil
}

// Name returns the source name.
func (m *MusicBrainzService) Name() string {
	return SourceMusicBrainz
}

// SearchArtist resolves an artist by name, returning the best-scored match.
func (m *MusicBrainzService) SearchArtist(ctx context.Context, name string) (*models.Artist, error) {
	endpoint := fmt.Sprintf("%s/artist?query=%s&fmt=json&limit=%d",
		mbBaseURL, url.QueryEscape("artist:"+name), searchResultLimit)

	value, err := throttled(ctx, m.limiter, func() (any, error) {
		var parsed mbSearchResponse
		if err := getJSON(ctx, m.httpClient, endpoint, m.headers(), &parsed); err != nil {
			return nil, err
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	parsed := value.(*mbSearchResponse)
	best := bestMatch(parsed.Artists)
	if best == nil {
		return nil, fmt.Errorf("%w: no MusicBrainz match for %q", shared.ErrArtistNotFound, name)
	}

	return toArtistDTO(best), nil
}

// LookupArtist retrieves one artist by its MBID.
func (m *MusicBrainzService) LookupArtist(ctx context.Context, mbid string) (*models.Artist, error) {
	endpoint := fmt.Sprintf("%s/artist/%s?fmt=json&inc=tags", mbBaseURL, url.PathEscape(mbid))

	value, err := throttled(ctx, m.limiter, func() (any, error) {
		var parsed MBArtist
		if err := getJSON(ctx, m.httpClient, endpoint, m.headers(), &parsed); err != nil {
			return nil, err
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	return toArtistDTO(value.(*MBArtist)), nil
}

// EnrichArtist implements [Enricher] via best-match search.
func (m *MusicBrainzService) EnrichArtist(ctx context.Context, name string) (map[string]any, error) {
	artist, err := m.SearchArtist(ctx, name)
	if err != nil {
		return nil, err
	}
	return recordFromDTO(artist)
}

func (m *MusicBrainzService) headers() map[string]string {
	return map[string]string{
		"User-Agent": m.userAgent,
		"Accept":     "application/json",
	}
}

// bestMatch returns the highest-scored artist, preferring earlier entries on ties.
func bestMatch(artists []MBArtist) *MBArtist {
	var best *MBArtist
	for i := range artists {
		if best == nil || artists[i].Score > best.Score {
			best = &artists[i]
		}
	}
	return best
}

func toArtistDTO(a *MBArtist) *models.Artist {
	tags := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		tags = append(tags, tag.Name)
	}

	return &models.Artist{
		Name:           a.Name,
		MBID:           a.ID,
		Score:          a.Score,
		Country:        a.Country,
		Disambiguation: a.Disambiguation,
		Tags:           tags,
	}
}
