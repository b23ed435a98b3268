// TheAudioDB [Enricher] implementation
//
// Response types based on https://www.theaudiodb.com/free_music_api
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/ratelimit"
	"github.com/desertthunder/artx/internal/shared"
)

const adbBaseURL = "https://www.theaudiodb.com/api/v1/json"

// FreeTierKey is TheAudioDB's public test key. Rate limits on it are strict,
// so the default window of 2 calls per second leaves headroom.
const FreeTierKey = "2"

// ADBArtist represents an artist entry from TheAudioDB. The API serializes
// every field as a string, including numerics.
type ADBArtist struct {
	ID          string `json:"idArtist"`
	Name        string `json:"strArtist"`
	MBID        string `json:"strMusicBrainzID"`
	Biography   string `json:"strBiographyEN"`
	Genre       string `json:"strGenre"`
	Style       string `json:"strStyle"`
	Mood        string `json:"strMood"`
	Thumb       string `json:"strArtistThumb"`
	Logo        string `json:"strArtistLogo"`
	Website     string `json:"strWebsite"`
	Facebook    string `json:"strFacebook"`
	FormedYear  string `json:"intFormedYear"`
	CountryCode string `json:"strCountryCode"`
}

type adbResponse struct {
	Artists []ADBArtist `json:"artists"`
}

// AudioDBService implements [Enricher] against TheAudioDB.
type AudioDBService struct {
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewAudioDBService creates a TheAudioDB client with its own rate limiter.
// An empty API key falls back to the free tier.
func NewAudioDBService(cfg shared.AudioDBConfig, limit shared.LimitConfig, client *http.Client) (*AudioDBService, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = FreeTierKey
	}
	if client == nil {
		client = http.DefaultClient
	}

	limiter, err := ratelimit.New(limit.MaxCalls, limit.Window())
	if err != nil {
		return nil, err
	}

	return &AudioDBService{
		apiKey:     apiKey,
		httpClient: client,
		limiter:    limiter,
	}, nil
}

// Name returns the source name.
func (a *AudioDBService) Name() string {
	return SourceAudioDB
}

// SearchArtist resolves an artist profile by name.
func (a *AudioDBService) SearchArtist(ctx context.Context, name string) (*models.ArtistProfile, error) {
	endpoint := fmt.Sprintf("%s/%s/search.php?s=%s", adbBaseURL, a.apiKey, url.QueryEscape(name))
	return a.fetchProfile(ctx, endpoint, name)
}

// LookupArtistByMBID resolves an artist profile by MusicBrainz identifier.
func (a *AudioDBService) LookupArtistByMBID(ctx context.Context, mbid string) (*models.ArtistProfile, error) {
	endpoint := fmt.Sprintf("%s/%s/artist-mb.php?i=%s", adbBaseURL, a.apiKey, url.QueryEscape(mbid))
	return a.fetchProfile(ctx, endpoint, mbid)
}

// EnrichArtist implements [Enricher] via name search.
func (a *AudioDBService) EnrichArtist(ctx context.Context, name string) (map[string]any, error) {
	profile, err := a.SearchArtist(ctx, name)
	if err != nil {
		return nil, err
	}
	return recordFromDTO(profile)
}

func (a *AudioDBService) fetchProfile(ctx context.Context, endpoint, subject string) (*models.ArtistProfile, error) {
	value, err := throttled(ctx, a.limiter, func() (any, error) {
		var parsed adbResponse
		if err := getJSON(ctx, a.httpClient, endpoint, nil, &parsed); err != nil {
			return nil, err
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	parsed := value.(*adbResponse)
	// TheAudioDB signals a miss with HTTP 200 and a null artists array
	if len(parsed.Artists) == 0 {
		return nil, fmt.Errorf("%w: no TheAudioDB match for %q", shared.ErrArtistNotFound, subject)
	}

	return toProfileDTO(&parsed.Artists[0]), nil
}

func toProfileDTO(a *ADBArtist) *models.ArtistProfile {
	formedYear, _ := strconv.Atoi(a.FormedYear)

	return &models.ArtistProfile{
		Name:       a.Name,
		Biography:  a.Biography,
		Genre:      a.Genre,
		Style:      a.Style,
		Mood:       a.Mood,
		Thumb:      a.Thumb,
		Logo:       a.Logo,
		Website:    a.Website,
		FormedYear: formedYear,
	}
}
