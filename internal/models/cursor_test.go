package models

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestResolveOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		total  int
		want   int
	}{
		{name: "offset within range", offset: 200, total: 450, want: 200},
		{name: "negative offset clamps to zero", offset: -5, total: 450, want: 0},
		{name: "offset at total wraps", offset: 450, total: 450, want: 0},
		{name: "offset past total wraps", offset: 600, total: 450, want: 0},
		{name: "zero offset", offset: 0, total: 450, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOffset(tt.offset, tt.total); got != tt.want {
				t.Errorf("ResolveOffset(%d, %d) = %d, want %d", tt.offset, tt.total, got, tt.want)
			}
		})
	}
}

func TestNextOffset(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		pageSize int
		total    int
		want     int
	}{
		{name: "first page of 450", offset: 0, pageSize: 200, total: 450, want: 200},
		{name: "middle page", offset: 200, pageSize: 200, total: 450, want: 400},
		{name: "final partial page wraps", offset: 400, pageSize: 200, total: 450, want: 0},
		{name: "exact boundary wraps", offset: 200, pageSize: 200, total: 400, want: 0},
		{name: "single page feed wraps immediately", offset: 0, pageSize: 200, total: 50, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOffset(tt.offset, tt.pageSize, tt.total); got != tt.want {
				t.Errorf("NextOffset(%d, %d, %d) = %d, want %d",
					tt.offset, tt.pageSize, tt.total, got, tt.want)
			}
		})
	}
}

// The cursor must land in [0, total) after any run, never negative and never
// at or past the end of the remote set.
func TestCursorWindowInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("next offset always in [0, total)", prop.ForAll(
		func(offset, pageSize, total int) bool {
			resolved := ResolveOffset(offset, total)
			next := NextOffset(resolved, pageSize, total)
			return next >= 0 && next < total
		},
		gen.IntRange(-1000, 100000),
		gen.IntRange(1, 1000),
		gen.IntRange(1, 100000),
	))

	properties.Property("resolved offset never negative or past total", prop.ForAll(
		func(offset, total int) bool {
			resolved := ResolveOffset(offset, total)
			return resolved >= 0 && resolved < total
		},
		gen.IntRange(-1000, 100000),
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t)
}
