package badger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
)

// ArticleStorage implements the ArticleStorage interface for Badger.
// Writes are serialized through a mutex so concurrent upserts of the
// same ID resolve to one row with an accurate duplicate count; reads
// go straight to the store and run concurrently.
type ArticleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewArticleStorage creates a new ArticleStorage instance
func NewArticleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArticleStorage {
	return &ArticleStorage{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the article by its deterministic ID. A new ID inserts;
// an existing ID keeps the original CreatedAt, bumps DuplicateCount,
// and refreshes the mutable fields.
func (s *ArticleStorage) Upsert(article *models.Article) (models.UpsertResult, error) {
	if article.ID == "" {
		return models.UpsertInserted, fmt.Errorf("article ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	result := models.UpsertInserted

	var existing models.Article
	err := s.db.Store().Get(article.ID, &existing)
	switch err {
	case nil:
		result = models.UpsertUpdated
		article.CreatedAt = existing.CreatedAt
		article.DuplicateCount = existing.DuplicateCount + 1
	case badgerhold.ErrNotFound:
		article.CreatedAt = now
		article.DuplicateCount = 0
	default:
		return result, fmt.Errorf("failed to read article %s: %w", article.ID, err)
	}
	article.UpdatedAt = now

	if err := s.db.Store().Upsert(article.ID, article); err != nil {
		return result, fmt.Errorf("failed to save article %s: %w", article.ID, err)
	}
	return result, nil
}

func (s *ArticleStorage) GetByID(id string) (*models.Article, error) {
	var article models.Article
	if err := s.db.Store().Get(id, &article); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("article not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// Query returns articles matching the filter, newest first. The keyword
// filter runs on the decoded result set since badgerhold cannot index
// substring matches over two fields.
func (s *ArticleStorage) Query(filter *models.ArticleFilter) ([]*models.Article, error) {
	if filter == nil {
		filter = &models.ArticleFilter{}
	}

	query := badgerhold.Where("ID").Ne("") // Select all
	if filter.Source != "" {
		query = query.And("Source").Eq(filter.Source)
	}
	if !filter.From.IsZero() {
		query = query.And("PublishedAt").Ge(filter.From)
	}
	if !filter.To.IsZero() {
		query = query.And("PublishedAt").Le(filter.To)
	}
	if filter.StockCode != "" {
		query = query.And("Stocks").Contains(filter.StockCode)
	}
	if filter.MinOverall != nil {
		query = query.And("OverallScore").Ge(*filter.MinOverall)
	}
	if filter.MinSentiment != nil {
		query = query.And("SentimentScore").Ge(*filter.MinSentiment)
	}
	if filter.MaxSentiment != nil {
		query = query.And("SentimentScore").Le(*filter.MaxSentiment)
	}
	query = query.SortBy("PublishedAt").Reverse()

	var articles []models.Article
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	keyword := strings.ToLower(filter.Keyword)
	result := make([]*models.Article, 0, len(articles))
	for i := range articles {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(articles[i].Title), keyword) &&
			!strings.Contains(strings.ToLower(articles[i].Content), keyword) {
			continue
		}
		result = append(result, &articles[i])
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (s *ArticleStorage) GetByStock(stockCode string, limit int) ([]*models.Article, error) {
	query := badgerhold.Where("Stocks").Contains(stockCode).SortBy("PublishedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var articles []models.Article
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to query articles by stock: %w", err)
	}

	result := make([]*models.Article, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}

func (s *ArticleStorage) Count() (int, error) {
	count, err := s.db.Store().Count(&models.Article{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return int(count), nil
}

func (s *ArticleStorage) CountBySource(source string) (int, error) {
	count, err := s.db.Store().Count(&models.Article{}, badgerhold.Where("Source").Eq(source))
	if err != nil {
		return 0, fmt.Errorf("failed to count articles by source: %w", err)
	}
	return int(count), nil
}
