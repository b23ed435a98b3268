package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/artx/internal/shared"
	helpers "github.com/desertthunder/artx/internal/testing"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testLimit() shared.LimitConfig {
	return shared.LimitConfig{MaxCalls: 100, WindowMS: 1000}
}

func mbTestConfig() shared.MusicBrainzConfig {
	return shared.MusicBrainzConfig{AppName: "artx-test", Contact: "dev@example.com"}
}

func TestNewMusicBrainzService(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		srv, err := NewMusicBrainzService(mbTestConfig(), testLimit(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.Name() != SourceMusicBrainz {
			t.Errorf("expected service name %q, got %s", SourceMusicBrainz, srv.Name())
		}
	})

	t.Run("Missing Contact", func(t *testing.T) {
		_, err := NewMusicBrainzService(shared.MusicBrainzConfig{AppName: "artx"}, testLimit(), nil)
		if !errors.Is(err, shared.ErrMissingCredential) {
			t.Errorf("expected ErrMissingCredential, got %v", err)
		}
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		_, err := NewMusicBrainzService(mbTestConfig(), shared.LimitConfig{MaxCalls: 0, WindowMS: 1000}, nil)
		if !errors.Is(err, shared.ErrRateLimiterConfig) {
			t.Errorf("expected ErrRateLimiterConfig, got %v", err)
		}
	})
}

func TestMusicBrainzSearchArtist(t *testing.T) {
	t.Run("Best Score Wins", func(t *testing.T) {
		body := `{"count":2,"artists":[
			{"id":"low","name":"Nina","score":62,"country":"GB"},
			{"id":"high","name":"Nina Simone","score":100,"country":"US",
			 "tags":[{"name":"jazz","count":5},{"name":"soul","count":3}]}
		]}`
		transport := &helpers.SequenceRoundTripper{Responses: []*http.Response{jsonResponse(200, body)}}
		srv, err := NewMusicBrainzService(mbTestConfig(), testLimit(), &http.Client{Transport: transport})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		artist, err := srv.SearchArtist(context.Background(), "Nina Simone")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if artist.MBID != "high" {
			t.Errorf("expected best-scored match, got %q", artist.MBID)
		}
		if len(artist.Tags) != 2 || artist.Tags[0] != "jazz" {
			t.Errorf("tags = %v", artist.Tags)
		}

		req := transport.Requests[0]
		if ua := req.Header.Get("User-Agent"); !strings.Contains(ua, "dev@example.com") {
			t.Errorf("User-Agent must carry contact info, got %q", ua)
		}
		if !strings.Contains(req.URL.RawQuery, "fmt=json") {
			t.Errorf("query = %q", req.URL.RawQuery)
		}
	})

	t.Run("No Match", func(t *testing.T) {
		transport := helpers.NewMockRoundTripper(jsonResponse(200, `{"count":0,"artists":[]}`), nil)
		srv, _ := NewMusicBrainzService(mbTestConfig(), testLimit(), &http.Client{Transport: transport})

		_, err := srv.SearchArtist(context.Background(), "nobody")
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})

	t.Run("Upstream Error", func(t *testing.T) {
		transport := helpers.NewMockRoundTripper(jsonResponse(503, `{}`), nil)
		srv, _ := NewMusicBrainzService(mbTestConfig(), testLimit(), &http.Client{Transport: transport})

		_, err := srv.SearchArtist(context.Background(), "anyone")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestMusicBrainzEnrichArtist(t *testing.T) {
	body := `{"count":1,"artists":[{"id":"m1","name":"Nina Simone","score":100,"country":"US"}]}`
	transport := helpers.NewMockRoundTripper(jsonResponse(200, body), nil)
	srv, _ := NewMusicBrainzService(mbTestConfig(), testLimit(), &http.Client{Transport: transport})

	record, err := srv.EnrichArtist(context.Background(), "Nina Simone")
	if err != nil {
		t.Fatalf("enrich failed: %v", err)
	}
	if record["artistName"] != "Nina Simone" {
		t.Errorf("artistName = %v", record["artistName"])
	}
	if record["mbid"] != "m1" {
		t.Errorf("mbid = %v", record["mbid"])
	}
	if record["score"] != 100.0 {
		t.Errorf("score = %v (%T)", record["score"], record["score"])
	}
}
