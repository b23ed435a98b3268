package server

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func testConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    "client",
		RedirectURL: "http://localhost:3000/oauth/callback",
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Route From Redirect URL", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(), "state123")
		routes := h.Routes()
		if len(routes) != 1 || routes[0] != "/oauth/callback" {
			t.Errorf("routes = %v", routes)
		}
	})

	t.Run("Rejects Bad State", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(), "state123")

		req := httptest.NewRequest("GET", "/oauth/callback?state=wrong&code=abc", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != 400 {
			t.Errorf("status = %d, want 400", rec.Code)
		}

		result := <-h.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("Rejects Missing Code", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(), "state123")

		req := httptest.NewRequest("GET", "/oauth/callback?state=state123&error=access_denied", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != 400 {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(), "state123")

		req := httptest.NewRequest("GET", "/oauth/callback?state=wrong", nil)
		h.ServeHTTP(httptest.NewRecorder(), req)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != 400 {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(a) != 32 || a == b {
		t.Errorf("state tokens: %q, %q", a, b)
	}
}
