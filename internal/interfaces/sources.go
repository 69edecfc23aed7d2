package interfaces

import (
	"context"

	"github.com/ternarybob/newsflow/internal/models"
)

// SourceAdapter performs one polite fetch-and-parse cycle against a single
// news source. Implementations issue outbound HTTP requests and must apply
// a minimum inter-request delay; failures are typed (sources.FetchError,
// sources.ParseError, charset.ErrUnresolved) and never fatal to the
// pipeline.
type SourceAdapter interface {
	// Name returns the stable source identifier (e.g. "naver_finance")
	Name() string

	// FetchAndParse returns candidate articles from one crawl cycle.
	// Candidates carry no scores; scoring happens downstream.
	FetchAndParse(ctx context.Context) ([]*models.Article, error)
}

// SchedulerService drives source adapters at a market-calendar-aware cadence
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool

	// TriggerCollectionNow runs a full collection cycle out of schedule
	TriggerCollectionNow()
}
