// Package collector runs one collection cycle per source: fetch and
// parse candidate articles, score them, and upsert into storage with
// an audit record of the attempt.
package collector

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
	"github.com/ternarybob/newsflow/internal/services/scorer"
)

// Service orchestrates the per-source collection pipeline
type Service struct {
	adapters []interfaces.SourceAdapter
	articles interfaces.ArticleStorage
	attempts interfaces.AttemptStorage
	scorer   *scorer.Scorer
	logger   arbor.ILogger
}

func NewService(adapters []interfaces.SourceAdapter, storage interfaces.StorageManager, sc *scorer.Scorer) *Service {
	return &Service{
		adapters: adapters,
		articles: storage.ArticleStorage(),
		attempts: storage.AttemptStorage(),
		scorer:   sc,
		logger:   common.GetLogger(),
	}
}

// Adapters returns the configured source adapters
func (s *Service) Adapters() []interfaces.SourceAdapter {
	return s.adapters
}

// CollectSource runs one full cycle for a single source. Fetch and
// parse failures are recorded in the attempt log and returned; they
// never panic or poison other sources. Articles returned alongside an
// error are still scored and stored.
func (s *Service) CollectSource(ctx context.Context, adapter interfaces.SourceAdapter) error {
	start := time.Now()
	source := adapter.Name()

	articles, fetchErr := adapter.FetchAndParse(ctx)

	inserted, updated := 0, 0
	for _, article := range articles {
		s.scorer.Score(article, time.Now())

		result, err := s.articles.Upsert(article)
		if err != nil {
			s.logger.Error().Err(err).Str("source", source).Str("id", article.ID).Msg("article upsert failed")
			continue
		}
		if result == models.UpsertInserted {
			inserted++
		} else {
			updated++
		}
	}

	attempt := &models.CollectionAttempt{
		Source:      source,
		CollectedAt: start,
		NewsCount:   len(articles),
		Status:      models.AttemptStatusSuccess,
	}
	if fetchErr != nil {
		attempt.Status = models.AttemptStatusError
		attempt.ErrorMessage = fetchErr.Error()
	}
	if err := s.attempts.Record(attempt); err != nil {
		s.logger.Warn().Err(err).Str("source", source).Msg("failed to record collection attempt")
	}

	elapsed := time.Since(start)
	if fetchErr != nil {
		s.logger.Warn().Err(fetchErr).Str("source", source).
			Dur("elapsed", elapsed).Msg("collection cycle failed")
		return fetchErr
	}

	s.logger.Info().Str("source", source).Int("articles", len(articles)).
		Int("inserted", inserted).Int("updated", updated).
		Dur("elapsed", elapsed).Msg("collection cycle complete")
	return nil
}

// CollectAll runs one cycle for every source, continuing past
// per-source failures
func (s *Service) CollectAll(ctx context.Context) {
	for _, adapter := range s.adapters {
		if ctx.Err() != nil {
			return
		}
		if err := s.CollectSource(ctx, adapter); err != nil && ctx.Err() != nil {
			return
		}
	}
}
