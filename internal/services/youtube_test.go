package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/artx/internal/shared"
	helpers "github.com/desertthunder/artx/internal/testing"
)

func ytTestConfig() shared.YouTubeConfig {
	return shared.YouTubeConfig{APIKey: "test_key"}
}

func TestParsePlaylistURL(t *testing.T) {
	tc := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "Full URL", raw: "https://www.youtube.com/playlist?list=PLabc123", want: "PLabc123"},
		{name: "Watch URL With List", raw: "https://www.youtube.com/watch?v=xyz&list=PLdef456", want: "PLdef456"},
		{name: "Bare ID", raw: "PLabc123", want: "PLabc123"},
		{name: "URL Without List", raw: "https://www.youtube.com/watch?v=xyz", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlaylistURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYouTubeSearchChannel(t *testing.T) {
	t.Run("Requires Auth", func(t *testing.T) {
		srv, err := NewYouTubeService(shared.YouTubeConfig{}, testLimit(), nil)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		_, err = srv.SearchChannel(context.Background(), "Nina Simone")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Channel With Statistics", func(t *testing.T) {
		transport := &helpers.SequenceRoundTripper{Responses: []*http.Response{
			jsonResponse(200, `{"items":[{"id":{"channelId":"UC123"},"snippet":{"title":"Nina Simone","thumbnails":{"high":{"url":"https://example.com/t.jpg"}}}}]}`),
			jsonResponse(200, `{"items":[{"id":"UC123","statistics":{"subscriberCount":"1200000"}}]}`),
		}}
		srv, _ := NewYouTubeService(ytTestConfig(), testLimit(), &http.Client{Transport: transport})

		channel, err := srv.SearchChannel(context.Background(), "Nina Simone")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if channel.ID != "UC123" || channel.SubscriberCount != 1200000 {
			t.Errorf("channel = %+v", channel)
		}

		first := transport.Requests[0].URL.Query()
		if first.Get("type") != "channel" || first.Get("key") != "test_key" {
			t.Errorf("search query = %v", first)
		}
	})

	t.Run("No Results", func(t *testing.T) {
		transport := helpers.NewMockRoundTripper(jsonResponse(200, `{"items":[]}`), nil)
		srv, _ := NewYouTubeService(ytTestConfig(), testLimit(), &http.Client{Transport: transport})

		_, err := srv.SearchChannel(context.Background(), "nobody")
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})
}

func TestYouTubePlaylistItems(t *testing.T) {
	t.Run("Follows Pagination", func(t *testing.T) {
		transport := &helpers.SequenceRoundTripper{Responses: []*http.Response{
			jsonResponse(200, `{"nextPageToken":"page2","items":[
				{"snippet":{"title":"Nina Simone - Feeling Good","resourceId":{"videoId":"v1"}}}
			]}`),
			jsonResponse(200, `{"items":[
				{"snippet":{"title":"Miles Davis - So What","resourceId":{"videoId":"v2"}}}
			]}`),
		}}
		srv, _ := NewYouTubeService(ytTestConfig(), testLimit(), &http.Client{Transport: transport})

		items, err := srv.PlaylistItems(context.Background(), "PLabc")
		if err != nil {
			t.Fatalf("playlist fetch failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items across pages, got %d", len(items))
		}
		if items[1].VideoID != "v2" {
			t.Errorf("items out of order: %+v", items)
		}

		second := transport.Requests[1].URL.Query()
		if second.Get("pageToken") != "page2" {
			t.Errorf("second request must carry page token, got %v", second)
		}
	})

	t.Run("Requires Auth", func(t *testing.T) {
		srv, _ := NewYouTubeService(shared.YouTubeConfig{}, testLimit(), nil)
		if _, err := srv.PlaylistItems(context.Background(), "PLabc"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestYouTubeEnrichArtist(t *testing.T) {
	transport := &helpers.SequenceRoundTripper{Responses: []*http.Response{
		jsonResponse(200, `{"items":[{"id":{"channelId":"UC123"},"snippet":{"title":"Nina Simone"}}]}`),
		jsonResponse(200, `{"items":[{"id":"UC123","statistics":{"subscriberCount":"42"}}]}`),
	}}
	srv, _ := NewYouTubeService(ytTestConfig(), testLimit(), &http.Client{Transport: transport})

	record, err := srv.EnrichArtist(context.Background(), "Nina Simone")
	if err != nil {
		t.Fatalf("enrich failed: %v", err)
	}
	if record["channelId"] != "UC123" || record["channelTitle"] != "Nina Simone" {
		t.Errorf("record = %v", record)
	}
	if record["subscriberCount"] != 42.0 {
		t.Errorf("subscriberCount = %v (%T)", record["subscriberCount"], record["subscriberCount"])
	}
}

func TestNewOAuthConfig(t *testing.T) {
	conf := NewOAuthConfig(shared.YouTubeConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8888/callback",
	})

	if conf.ClientID != "cid" || conf.RedirectURL != "http://localhost:8888/callback" {
		t.Errorf("config = %+v", conf)
	}
	if len(conf.Scopes) != 1 || !strings.Contains(conf.Scopes[0], "youtube.readonly") {
		t.Errorf("scopes = %v", conf.Scopes)
	}
}
