package interfaces

import (
	"time"

	"github.com/ternarybob/newsflow/internal/models"
)

// ArticleStorage persists articles with at-most-one logical row per ID.
// Writers are serialized; readers never block each other and observe a
// consistent snapshot as of their query start.
type ArticleStorage interface {
	// Upsert writes the article atomically by ID. Concurrent callers racing
	// on the same ID never produce a duplicate row; re-ingestion updates
	// mutable fields (scores, UpdatedAt, DuplicateCount) in place.
	Upsert(article *models.Article) (models.UpsertResult, error)

	GetByID(id string) (*models.Article, error)

	// Query returns articles matching the filter, ordered by publication
	// time descending.
	Query(filter *models.ArticleFilter) ([]*models.Article, error)

	// GetByStock returns the most recent articles mentioning the stock code
	GetByStock(stockCode string, limit int) ([]*models.Article, error)

	Count() (int, error)
	CountBySource(source string) (int, error)
}

// AttemptStorage is the append-only collection log
type AttemptStorage interface {
	Record(attempt *models.CollectionAttempt) error
	Recent(source string, limit int) ([]*models.CollectionAttempt, error)

	// Stats aggregates attempts vs successes per source over the window
	Stats(window time.Duration) (*models.CollectionStats, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	ArticleStorage() ArticleStorage
	AttemptStorage() AttemptStorage

	// RunGC triggers value-log garbage collection on the underlying store
	RunGC() error
	Close() error
}
