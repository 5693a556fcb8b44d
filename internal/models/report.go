package models

import "time"

// SyncReport summarizes one completed sync run for operator visibility.
type SyncReport struct {
	RunID       string        `json:"run_id"`
	JobName     string        `json:"job_name"`
	Total       int           `json:"total"`
	Offset      int           `json:"offset"`
	Upserted    int           `json:"upserted"`
	Failed      int           `json:"failed"`
	NextOffset  int           `json:"next_offset"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}
