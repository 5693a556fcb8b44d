package feed

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/models"
)

type memoryTokenStore struct {
	tokens  map[string]*models.FeedToken
	getErr  error
	upserts int
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]*models.FeedToken)}
}

func (s *memoryTokenStore) Get(ctx context.Context, feedName string) (*models.FeedToken, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.tokens[feedName], nil
}

func (s *memoryTokenStore) Upsert(ctx context.Context, token *models.FeedToken) error {
	s.upserts++
	s.tokens[token.FeedName] = token
	return nil
}

func newTestTokenManager(t *testing.T, store TokenStore, server *httptest.Server) *TokenManager {
	t.Helper()
	cfg := &TokenManagerConfig{
		Store:        store,
		FeedName:     "trestle",
		TokenURL:     "http://unused.invalid/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	if server != nil {
		cfg.TokenURL = server.URL
		cfg.HTTPClient = server.Client()
	}
	m, err := NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return m
}

func TestGetValidTokenCacheHit(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("cached valid token must not trigger a network exchange")
	}))
	defer server.Close()

	store := newMemoryTokenStore()
	store.tokens["trestle"] = &models.FeedToken{
		FeedName:    "trestle",
		AccessToken: "cached-token",
		ExpiresAt:   now.Add(time.Hour),
	}

	m := newTestTokenManager(t, store, server)
	m.now = func() time.Time { return now }

	tok, err := m.GetValidToken(context.Background(), "trestle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "cached-token" {
		t.Errorf("expected cached token, got %q", tok.AccessToken)
	}
	if store.upserts != 0 {
		t.Error("cache hit must not rewrite the stored token")
	}
}

func TestGetValidTokenRefreshesNearExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostForm.Get("grant_type"),
			"client_id":     r.PostForm.Get("client_id"),
			"client_secret": r.PostForm.Get("client_secret"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "fresh-token", "expires_in": 3600}`))
	}))
	defer server.Close()

	store := newMemoryTokenStore()
	// Expires in 90 seconds, inside the 2-minute buffer.
	store.tokens["trestle"] = &models.FeedToken{
		FeedName:    "trestle",
		AccessToken: "stale-token",
		ExpiresAt:   now.Add(90 * time.Second),
	}

	m := newTestTokenManager(t, store, server)
	m.now = func() time.Time { return now }

	tok, err := m.GetValidToken(context.Background(), "trestle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "fresh-token" {
		t.Errorf("expected refreshed token, got %q", tok.AccessToken)
	}
	if want := now.Add(time.Hour); !tok.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, tok.ExpiresAt)
	}

	if gotForm["grant_type"] != "client_credentials" {
		t.Errorf("unexpected grant type %q", gotForm["grant_type"])
	}
	if gotForm["client_id"] != "client-id" || gotForm["client_secret"] != "client-secret" {
		t.Error("credentials not sent in exchange form")
	}

	if store.upserts != 1 {
		t.Errorf("expected one upsert of the refreshed token, got %d", store.upserts)
	}
	if stored := store.tokens["trestle"]; stored.AccessToken != "fresh-token" {
		t.Error("refreshed token not persisted")
	}
}

func TestGetValidTokenColdStart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token": "first-token", "expires_in": 3600}`))
	}))
	defer server.Close()

	store := newMemoryTokenStore()
	m := newTestTokenManager(t, store, server)

	tok, err := m.GetValidToken(context.Background(), "trestle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "first-token" {
		t.Errorf("expected first token, got %q", tok.AccessToken)
	}
}

func TestGetValidTokenExchangeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "endpoint rejects credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty access token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"access_token": "", "expires_in": 3600}`))
			},
		},
		{
			name: "non-positive lifetime",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"access_token": "t", "expires_in": 0}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			store := newMemoryTokenStore()
			m := newTestTokenManager(t, store, server)

			_, err := m.GetValidToken(context.Background(), "trestle")
			if err == nil {
				t.Fatal("expected exchange failure")
			}
			if !errors.IsCategory(err, errors.CategoryCredential) {
				t.Errorf("expected credential category, got %v", err)
			}
			if store.upserts != 0 {
				t.Error("failed exchange must not persist a token")
			}
		})
	}
}

func TestGetValidTokenStoreReadFailure(t *testing.T) {
	store := newMemoryTokenStore()
	store.getErr = stderrors.New("connection refused")

	m := newTestTokenManager(t, store, nil)

	_, err := m.GetValidToken(context.Background(), "trestle")
	if err == nil {
		t.Fatal("expected store read failure")
	}
	if !errors.IsCategory(err, errors.CategoryDatabase) {
		t.Errorf("expected database category, got %v", err)
	}
}
