package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/models"
	"github.com/ternarybob/newsflow/internal/services/signals"
)

type stubArticleStore struct {
	articles []*models.Article
	queryErr error
}

func (s *stubArticleStore) Upsert(a *models.Article) (models.UpsertResult, error) {
	s.articles = append(s.articles, a)
	return models.UpsertInserted, nil
}

func (s *stubArticleStore) GetByID(id string) (*models.Article, error) {
	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("article not found: %s", id)
}

func (s *stubArticleStore) Query(filter *models.ArticleFilter) ([]*models.Article, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var result []*models.Article
	for _, a := range s.articles {
		if filter != nil && filter.Source != "" && a.Source != filter.Source {
			continue
		}
		result = append(result, a)
	}
	if filter != nil && filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *stubArticleStore) GetByStock(code string, limit int) ([]*models.Article, error) {
	var result []*models.Article
	for _, a := range s.articles {
		if a.MentionsStock(code) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *stubArticleStore) Count() (int, error)               { return len(s.articles), nil }
func (s *stubArticleStore) CountBySource(string) (int, error) { return 0, nil }

type stubAttemptStore struct {
	stats *models.CollectionStats
}

func (s *stubAttemptStore) Record(*models.CollectionAttempt) error { return nil }
func (s *stubAttemptStore) Recent(string, int) ([]*models.CollectionAttempt, error) {
	return []*models.CollectionAttempt{{Source: "naver_finance", NewsCount: 5}}, nil
}
func (s *stubAttemptStore) Stats(window time.Duration) (*models.CollectionStats, error) {
	s.stats.Window = window
	return s.stats, nil
}

func storedArticle(id, source string) *models.Article {
	return &models.Article{
		ID:          id,
		Title:       "삼성전자 수주 발표",
		Source:      source,
		PublishedAt: time.Now().Add(-time.Minute),
		Stocks:      []string{"005930"},
	}
}

func TestNewsListHandler(t *testing.T) {
	store := &stubArticleStore{articles: []*models.Article{
		storedArticle("n_1", "naver_finance"),
		storedArticle("n_2", "hankyung"),
	}}
	h := NewNewsHandler(store, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/news?source=naver_finance", nil)
	rec := httptest.NewRecorder()
	h.ListHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Articles []*models.Article `json:"articles"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "n_1", body.Articles[0].ID)
}

func TestNewsListHandlerRejectsBadDate(t *testing.T) {
	h := NewNewsHandler(&stubArticleStore{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/news?from=yesterday", nil)
	rec := httptest.NewRecorder()
	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsListHandlerRejectsPost(t *testing.T) {
	h := NewNewsHandler(&stubArticleStore{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
	rec := httptest.NewRecorder()
	h.ListHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewsGetHandler(t *testing.T) {
	store := &stubArticleStore{articles: []*models.Article{storedArticle("n_1", "naver_finance")}}
	h := NewNewsHandler(store, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/news/n_1", nil)
	rec := httptest.NewRecorder()
	h.GetHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var article models.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &article))
	assert.Equal(t, "n_1", article.ID)
}

func TestNewsGetHandlerNotFound(t *testing.T) {
	h := NewNewsHandler(&stubArticleStore{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/news/missing", nil)
	rec := httptest.NewRecorder()
	h.GetHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignalHandlerValidatesStockCode(t *testing.T) {
	engine := signals.NewEngine(&stubArticleStore{}, common.NewDefaultConfig().Signals)
	h := NewSignalHandler(engine, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/signal/SAMSUNG", nil)
	rec := httptest.NewRecorder()
	h.GetSignalHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignalHandlerReturnsHoldForUnknownStock(t *testing.T) {
	engine := signals.NewEngine(&stubArticleStore{}, common.NewDefaultConfig().Signals)
	h := NewSignalHandler(engine, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/signal/005930?days=3", nil)
	rec := httptest.NewRecorder()
	h.GetSignalHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var signal models.StockSignal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signal))
	assert.Equal(t, models.SignalHold, signal.Signal)
	assert.Equal(t, "005930", signal.StockCode)
	assert.Equal(t, 3, signal.WindowDays)
}

func TestSignalBatchHandler(t *testing.T) {
	engine := signals.NewEngine(&stubArticleStore{}, common.NewDefaultConfig().Signals)
	h := NewSignalHandler(engine, common.GetLogger())

	body := strings.NewReader(`{"stocks": ["005930", "000660"], "days": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/signals", body)
	rec := httptest.NewRecorder()
	h.BatchHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Signals []*models.StockSignal `json:"signals"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestSignalBatchHandlerRejectsEmptyList(t *testing.T) {
	engine := signals.NewEngine(&stubArticleStore{}, common.NewDefaultConfig().Signals)
	h := NewSignalHandler(engine, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/signals", strings.NewReader(`{"stocks": []}`))
	rec := httptest.NewRecorder()
	h.BatchHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandlerParsesWindow(t *testing.T) {
	store := &stubAttemptStore{stats: &models.CollectionStats{
		TotalArticles: 7,
		BySource:      map[string]models.SourceStats{},
	}}
	h := NewStatsHandler(store, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/stats?window=48h", nil)
	rec := httptest.NewRecorder()
	h.StatsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.CollectionStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.TotalArticles)
	assert.Equal(t, 48*time.Hour, stats.Window)
}

func TestStatsHandlerRejectsBadWindow(t *testing.T) {
	h := NewStatsHandler(&stubAttemptStore{stats: &models.CollectionStats{}}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/stats?window=two-days", nil)
	rec := httptest.NewRecorder()
	h.StatsHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubScheduler struct {
	running   bool
	triggered int
}

func (s *stubScheduler) Start() error          { s.running = true; return nil }
func (s *stubScheduler) Stop() error           { s.running = false; return nil }
func (s *stubScheduler) IsRunning() bool       { return s.running }
func (s *stubScheduler) TriggerCollectionNow() { s.triggered++ }

func TestTriggerCollectionHandler(t *testing.T) {
	sched := &stubScheduler{running: true}
	h := NewSchedulerHandler(sched, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scheduler/trigger-collection", nil)
	rec := httptest.NewRecorder()
	h.TriggerCollectionHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sched.triggered)
}

func TestTriggerCollectionHandlerWhenStopped(t *testing.T) {
	sched := &stubScheduler{}
	h := NewSchedulerHandler(sched, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scheduler/trigger-collection", nil)
	rec := httptest.NewRecorder()
	h.TriggerCollectionHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, sched.triggered)
}
