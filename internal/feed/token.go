package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/logging"
	"github.com/listing-sync/internal/models"
)

// RefreshBuffer is how close to expiry a cached token may get before it is
// refreshed instead of reused.
const RefreshBuffer = 2 * time.Minute

// TokenStore persists one bearer token per feed name.
type TokenStore interface {
	Get(ctx context.Context, feedName string) (*models.FeedToken, error)
	Upsert(ctx context.Context, token *models.FeedToken) error
}

// tokenResponse is the OAuth2 token endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenManager returns valid bearer tokens for the feed, refreshing the
// cached token via an OAuth2 client-credentials exchange when it is absent or
// within RefreshBuffer of expiry.
type TokenManager struct {
	store        TokenStore
	httpClient   *http.Client
	feedName     string
	tokenURL     string
	clientID     string
	clientSecret string
	now          func() time.Time
}

// TokenManagerConfig holds configuration for a token manager
type TokenManagerConfig struct {
	Store        TokenStore
	HTTPClient   *http.Client
	FeedName     string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *TokenManagerConfig) (*TokenManager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("token store cannot be nil")
	}
	if cfg.FeedName == "" {
		return nil, fmt.Errorf("feed name cannot be empty")
	}
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("token URL cannot be empty")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &TokenManager{
		store:        cfg.Store,
		httpClient:   httpClient,
		feedName:     cfg.FeedName,
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		now:          time.Now,
	}, nil
}

// Token implements TokenSource. The cache hit is the dominant path in steady
// state and performs no network call.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	tok, err := m.GetValidToken(ctx, m.feedName)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// GetValidToken returns the cached token for feedName if it is still more
// than RefreshBuffer from expiry, otherwise exchanges new credentials and
// upserts the result. Exchange failure is fatal to the caller's run; retries
// belong to the scheduler.
func (m *TokenManager) GetValidToken(ctx context.Context, feedName string) (*models.FeedToken, error) {
	cached, err := m.store.Get(ctx, feedName)
	if err != nil {
		return nil, errors.NewDatabaseError("read cached token", err)
	}

	now := m.now().UTC()
	if cached.Valid(now, RefreshBuffer) {
		return cached, nil
	}

	logging.FromContext(ctx).WithField("feed", feedName).Info("Refreshing feed token")

	token, err := m.exchange(ctx, now)
	if err != nil {
		return nil, err
	}
	token.FeedName = feedName

	if err := m.store.Upsert(ctx, token); err != nil {
		return nil, errors.NewDatabaseError("cache refreshed token", err)
	}
	return token, nil
}

// exchange performs the OAuth2 client-credentials flow.
func (m *TokenManager) exchange(ctx context.Context, now time.Time) (*models.FeedToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.NewCredentialError("build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewCredentialError("token endpoint unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewCredentialError("read token response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewCredentialError(
			fmt.Sprintf("token endpoint returned HTTP %d: %s", resp.StatusCode, truncate(string(body), maxErrorBody)),
			nil,
		)
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewCredentialError("malformed token payload", err)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return nil, errors.NewCredentialError(
			fmt.Sprintf("incomplete token payload: %s", truncate(string(body), maxErrorBody)),
			nil,
		)
	}

	return &models.FeedToken{
		AccessToken: payload.AccessToken,
		ExpiresAt:   now.Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}
