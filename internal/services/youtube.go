// YouTube Data API v3 [Enricher] implementation
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/artx/internal/models"
	"github.com/desertthunder/artx/internal/ratelimit"
	"github.com/desertthunder/artx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	ytBaseURL      = "https://www.googleapis.com/youtube/v3"
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	// YouTubeScope is the read-only Data API scope requested during OAuth.
	YouTubeScope = "https://www.googleapis.com/auth/youtube.readonly"

	playlistPageSize = 50
)

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytThumbnails struct {
	Default ytThumbnail `json:"default"`
	High    ytThumbnail `json:"high"`
}

type ytSearchID struct {
	ChannelID string `json:"channelId"`
}

type ytSnippet struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Thumbnails  ytThumbnails `json:"thumbnails"`
}

type ytSearchItem struct {
	ID      ytSearchID `json:"id"`
	Snippet ytSnippet  `json:"snippet"`
}

type ytSearchResponse struct {
	Items []ytSearchItem `json:"items"`
}

type ytStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
}

type ytChannelItem struct {
	ID         string       `json:"id"`
	Snippet    ytSnippet    `json:"snippet"`
	Statistics ytStatistics `json:"statistics"`
}

type ytChannelResponse struct {
	Items []ytChannelItem `json:"items"`
}

type ytResourceID struct {
	VideoID string `json:"videoId"`
}

type ytPlaylistItemSnippet struct {
	Title                 string       `json:"title"`
	VideoOwnerChannelTitle string      `json:"videoOwnerChannelTitle"`
	ResourceID            ytResourceID `json:"resourceId"`
}

type ytPlaylistItem struct {
	Snippet ytPlaylistItemSnippet `json:"snippet"`
}

type ytPlaylistResponse struct {
	Items         []ytPlaylistItem `json:"items"`
	NextPageToken string           `json:"nextPageToken"`
}

// PlaylistItem is one video entry from a YouTube playlist.
type PlaylistItem struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// YouTubeService implements [Enricher] against the YouTube Data API v3.
//
// Auth is either an API key appended to every request or an OAuth bearer
// client installed via [YouTubeService.UseToken].
type YouTubeService struct {
	apiKey     string
	authed     bool
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewYouTubeService creates a YouTube client with its own rate limiter.
func NewYouTubeService(cfg shared.YouTubeConfig, limit shared.LimitConfig, client *http.Client) (*YouTubeService, error) {
	if client == nil {
		client = http.DefaultClient
	}

	limiter, err := ratelimit.New(limit.MaxCalls, limit.Window())
	if err != nil {
		return nil, err
	}

	return &YouTubeService{
		apiKey:     cfg.APIKey,
		authed:     cfg.APIKey != "",
		httpClient: client,
		limiter:    limiter,
	}, nil
}

// NewOAuthConfig builds the OAuth2 client configuration for the read-only
// YouTube Data API scope.
func NewOAuthConfig(cfg shared.YouTubeConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{YouTubeScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// Name returns the source name.
func (y *YouTubeService) Name() string {
	return SourceYouTube
}

// UseToken installs an OAuth-backed HTTP client for subsequent requests.
func (y *YouTubeService) UseToken(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) {
	y.httpClient = conf.Client(ctx, token)
	y.authed = true
}

// SearchChannel resolves an artist's channel, taking the first search result.
func (y *YouTubeService) SearchChannel(ctx context.Context, artistName string) (*models.Channel, error) {
	if !y.authed {
		return nil, fmt.Errorf("%w: youtube requires an api key or oauth token", shared.ErrNotAuthenticated)
	}

	endpoint := y.endpoint("/search", url.Values{
		"part":       {"snippet"},
		"type":       {"channel"},
		"maxResults": {"1"},
		"q":          {artistName},
	})

	value, err := throttled(ctx, y.limiter, func() (any, error) {
		var parsed ytSearchResponse
		if err := getJSON(ctx, y.httpClient, endpoint, nil, &parsed); err != nil {
			return nil, err
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	parsed := value.(*ytSearchResponse)
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: no YouTube channel for %q", shared.ErrArtistNotFound, artistName)
	}

	item := parsed.Items[0]
	channel := &models.Channel{
		ID:          item.ID.ChannelID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Thumbnail:   item.Snippet.Thumbnails.High.URL,
	}

	stats, err := y.channelStatistics(ctx, channel.ID)
	if err == nil {
		channel.SubscriberCount = stats
	}

	return channel, nil
}

// channelStatistics fetches the subscriber count for one channel.
func (y *YouTubeService) channelStatistics(ctx context.Context, channelID string) (uint64, error) {
	endpoint := y.endpoint("/channels", url.Values{
		"part": {"statistics"},
		"id":   {channelID},
	})

	value, err := throttled(ctx, y.limiter, func() (any, error) {
		var parsed ytChannelResponse
		if err := getJSON(ctx, y.httpClient, endpoint, nil, &parsed); err != nil {
			return nil, err
		}
		return &parsed, nil
	})
	if err != nil {
		return 0, err
	}

	parsed := value.(*ytChannelResponse)
	if len(parsed.Items) == 0 {
		return 0, fmt.Errorf("%w: channel %s", shared.ErrArtistNotFound, channelID)
	}

	return strconv.ParseUint(parsed.Items[0].Statistics.SubscriberCount, 10, 64)
}

// PlaylistItems retrieves every video in a playlist, following pagination.
func (y *YouTubeService) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	if !y.authed {
		return nil, fmt.Errorf("%w: youtube requires an api key or oauth token", shared.ErrNotAuthenticated)
	}

	var items []PlaylistItem
	pageToken := ""

	for {
		values := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(playlistPageSize)},
		}
		if pageToken != "" {
			values.Set("pageToken", pageToken)
		}
		endpoint := y.endpoint("/playlistItems", values)

		value, err := throttled(ctx, y.limiter, func() (any, error) {
			var parsed ytPlaylistResponse
			if err := getJSON(ctx, y.httpClient, endpoint, nil, &parsed); err != nil {
				return nil, err
			}
			return &parsed, nil
		})
		if err != nil {
			return nil, err
		}

		parsed := value.(*ytPlaylistResponse)
		for _, item := range parsed.Items {
			items = append(items, PlaylistItem{
				VideoID:      item.Snippet.ResourceID.VideoID,
				Title:        item.Snippet.Title,
				ChannelTitle: item.Snippet.VideoOwnerChannelTitle,
			})
		}

		if parsed.NextPageToken == "" {
			return items, nil
		}
		pageToken = parsed.NextPageToken
	}
}

// EnrichArtist implements [Enricher] via channel search.
func (y *YouTubeService) EnrichArtist(ctx context.Context, name string) (map[string]any, error) {
	channel, err := y.SearchChannel(ctx, name)
	if err != nil {
		return nil, err
	}
	return recordFromDTO(channel)
}

func (y *YouTubeService) endpoint(path string, values url.Values) string {
	if y.apiKey != "" {
		values.Set("key", y.apiKey)
	}
	return ytBaseURL + path + "?" + values.Encode()
}

// ParsePlaylistURL extracts the playlist ID from a YouTube URL or accepts a
// bare playlist ID unchanged.
func ParsePlaylistURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: playlist URL is empty", shared.ErrInvalidArgument)
	}

	if !strings.Contains(raw, "/") && !strings.Contains(raw, "=") {
		return raw, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if id := parsed.Query().Get("list"); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("%w: no list parameter in %q", shared.ErrInvalidArgument, raw)
}
