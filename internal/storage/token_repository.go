package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/listing-sync/internal/models"
)

// TokenRepository handles feed token persistence
type TokenRepository struct {
	db *PostgresDB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *PostgresDB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get retrieves the cached token for a feed. Returns (nil, nil) when no token
// has been cached yet.
func (r *TokenRepository) Get(ctx context.Context, feedName string) (*models.FeedToken, error) {
	query := `
		SELECT feed_name, access_token, expires_at
		FROM feed_token
		WHERE feed_name = $1
	`

	var token models.FeedToken
	err := r.db.Pool().QueryRow(ctx, query, feedName).Scan(
		&token.FeedName,
		&token.AccessToken,
		&token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feed token: %w", err)
	}

	return &token, nil
}

// Upsert overwrites the cached token for a feed. Exactly one row exists per
// feed name.
func (r *TokenRepository) Upsert(ctx context.Context, token *models.FeedToken) error {
	query := `
		INSERT INTO feed_token (feed_name, access_token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (feed_name) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.Pool().Exec(ctx, query, token.FeedName, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert feed token: %w", err)
	}

	return nil
}
