package models

import (
	"testing"
	"time"
)

func TestFeedTokenValid(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	buffer := 2 * time.Minute

	tests := []struct {
		name  string
		token *FeedToken
		want  bool
	}{
		{name: "nil token", token: nil, want: false},
		{name: "empty access token", token: &FeedToken{ExpiresAt: now.Add(time.Hour)}, want: false},
		{
			name:  "well before expiry",
			token: &FeedToken{AccessToken: "t", ExpiresAt: now.Add(time.Hour)},
			want:  true,
		},
		{
			name:  "inside the refresh buffer",
			token: &FeedToken{AccessToken: "t", ExpiresAt: now.Add(90 * time.Second)},
			want:  false,
		},
		{
			name:  "exactly at the buffer edge",
			token: &FeedToken{AccessToken: "t", ExpiresAt: now.Add(buffer)},
			want:  false,
		},
		{
			name:  "already expired",
			token: &FeedToken{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Valid(now, buffer); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
