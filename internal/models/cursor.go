package models

import "time"

// SyncCursor marks the next page boundary for one sync job. The offset counts
// from position 0 of the upstream result set under the feed's stable ordering.
type SyncCursor struct {
	JobName   string    `json:"job_name"`
	Offset    int       `json:"offset"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolveOffset normalizes a persisted offset against the current remote
// total: negative offsets clamp to 0 and an offset at or past the end wraps
// to 0, restarting the full cycle.
func ResolveOffset(offset, total int) int {
	if offset < 0 {
		return 0
	}
	if offset >= total {
		return 0
	}
	return offset
}

// NextOffset advances the cursor by one page, wrapping to 0 once the window
// passes the end of the remote set. The result is always in [0, total).
func NextOffset(offset, pageSize, total int) int {
	next := offset + pageSize
	if next >= total {
		return 0
	}
	return next
}
