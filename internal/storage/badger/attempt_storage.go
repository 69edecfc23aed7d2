package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
)

// AttemptStorage implements the append-only collection log
type AttemptStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAttemptStorage creates a new AttemptStorage instance
func NewAttemptStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AttemptStorage {
	return &AttemptStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AttemptStorage) Record(attempt *models.CollectionAttempt) error {
	if attempt.ID == "" {
		attempt.ID = common.NewAttemptID()
	}
	if attempt.CollectedAt.IsZero() {
		attempt.CollectedAt = time.Now()
	}

	if err := s.db.Store().Insert(attempt.ID, attempt); err != nil {
		return fmt.Errorf("failed to record collection attempt: %w", err)
	}
	return nil
}

func (s *AttemptStorage) Recent(source string, limit int) ([]*models.CollectionAttempt, error) {
	query := badgerhold.Where("ID").Ne("")
	if source != "" {
		query = query.And("Source").Eq(source)
	}
	query = query.SortBy("CollectedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var attempts []models.CollectionAttempt
	if err := s.db.Store().Find(&attempts, query); err != nil {
		return nil, fmt.Errorf("failed to query collection attempts: %w", err)
	}

	result := make([]*models.CollectionAttempt, len(attempts))
	for i := range attempts {
		result[i] = &attempts[i]
	}
	return result, nil
}

// Stats aggregates the collection log over the window, combined with
// per-source article counts from the article table
func (s *AttemptStorage) Stats(window time.Duration) (*models.CollectionStats, error) {
	now := time.Now()
	since := now.Add(-window)

	var attempts []models.CollectionAttempt
	query := badgerhold.Where("CollectedAt").Ge(since)
	if err := s.db.Store().Find(&attempts, query); err != nil {
		return nil, fmt.Errorf("failed to query collection attempts: %w", err)
	}

	stats := &models.CollectionStats{
		BySource:    make(map[string]models.SourceStats),
		Window:      window,
		GeneratedAt: now,
	}

	for i := range attempts {
		attempt := &attempts[i]
		source := stats.BySource[attempt.Source]
		source.Attempts++
		if attempt.Status == models.AttemptStatusSuccess {
			source.Successes++
		}
		source.Collected += attempt.NewsCount
		stats.BySource[attempt.Source] = source
	}

	// Fill article counts for every source seen in either table
	total, err := s.db.Store().Count(&models.Article{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	stats.TotalArticles = int(total)

	for name := range stats.BySource {
		count, err := s.db.Store().Count(&models.Article{}, badgerhold.Where("Source").Eq(name))
		if err != nil {
			return nil, fmt.Errorf("failed to count articles for %s: %w", name, err)
		}
		source := stats.BySource[name]
		source.Articles = int(count)
		stats.BySource[name] = source
	}

	return stats, nil
}
