package models

import (
	"time"
)

// Attempt status values
const (
	AttemptStatusSuccess = "success"
	AttemptStatusError   = "error"
)

// CollectionAttempt records the outcome of one scheduled fetch cycle for a
// source. Append-only: rows are never mutated after creation.
type CollectionAttempt struct {
	ID           string    `json:"id" badgerhold:"key"`
	Source       string    `json:"source" badgerholdIndex:"Source"`
	CollectedAt  time.Time `json:"collected_at" badgerholdIndex:"CollectedAt"`
	NewsCount    int       `json:"news_count"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// SourceStats aggregates attempts vs successes for one source
type SourceStats struct {
	Articles  int `json:"articles"`
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
	Collected int `json:"collected"` // articles stored across the window's attempts
}

// CollectionStats summarizes store contents and recent collection health
type CollectionStats struct {
	TotalArticles int                    `json:"total_articles"`
	BySource      map[string]SourceStats `json:"by_source"`
	Window        time.Duration          `json:"window"`
	GeneratedAt   time.Time              `json:"generated_at"`
}
