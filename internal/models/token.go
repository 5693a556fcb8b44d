package models

import "time"

// FeedToken is a cached bearer token for one upstream feed. Exactly one row
// exists per feed name; it is overwritten on every refresh and never deleted.
type FeedToken struct {
	FeedName    string    `json:"feed_name"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token is usable at the given instant, leaving the
// supplied safety buffer before the recorded expiry.
func (t *FeedToken) Valid(now time.Time, buffer time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.After(now.Add(buffer))
}
