package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
	"github.com/ternarybob/newsflow/internal/services/collector"
	"github.com/ternarybob/newsflow/internal/services/scorer"
)

type nullArticleStore struct{ mu sync.Mutex }

func (n *nullArticleStore) Upsert(*models.Article) (models.UpsertResult, error) {
	return models.UpsertInserted, nil
}
func (n *nullArticleStore) GetByID(string) (*models.Article, error)                { return nil, nil }
func (n *nullArticleStore) Query(*models.ArticleFilter) ([]*models.Article, error) { return nil, nil }
func (n *nullArticleStore) GetByStock(string, int) ([]*models.Article, error)      { return nil, nil }
func (n *nullArticleStore) Count() (int, error)                                    { return 0, nil }
func (n *nullArticleStore) CountBySource(string) (int, error)                      { return 0, nil }

type nullAttemptStore struct{}

func (n *nullAttemptStore) Record(*models.CollectionAttempt) error { return nil }
func (n *nullAttemptStore) Recent(string, int) ([]*models.CollectionAttempt, error) {
	return nil, nil
}
func (n *nullAttemptStore) Stats(time.Duration) (*models.CollectionStats, error) {
	return &models.CollectionStats{BySource: map[string]models.SourceStats{}}, nil
}

type nullManager struct {
	articles nullArticleStore
	attempts nullAttemptStore
}

func (n *nullManager) ArticleStorage() interfaces.ArticleStorage { return &n.articles }
func (n *nullManager) AttemptStorage() interfaces.AttemptStorage { return &n.attempts }
func (n *nullManager) RunGC() error                              { return nil }
func (n *nullManager) Close() error                              { return nil }

// countingAdapter records call concurrency and sleeps to simulate a
// slow source
type countingAdapter struct {
	name        string
	delay       time.Duration
	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (c *countingAdapter) Name() string { return c.name }

func (c *countingAdapter) FetchAndParse(ctx context.Context) ([]*models.Article, error) {
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		max := c.maxInFlight.Load()
		if current <= max || c.maxInFlight.CompareAndSwap(max, current) {
			break
		}
	}
	c.calls.Add(1)
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
		}
	}
	return nil, nil
}

func testSchedulerConfig(interval string) *common.SchedulerConfig {
	cfg := common.NewDefaultConfig().Scheduler
	cfg.TickInterval = "10ms"
	cfg.MarketInterval = interval
	cfg.AfterHoursInterval = interval
	cfg.OffHoursInterval = interval
	cfg.DrainTimeout = "2s"
	return &cfg
}

func newTestScheduler(adapters []interfaces.SourceAdapter, cfg *common.SchedulerConfig) interfaces.SchedulerService {
	mgr := &nullManager{}
	col := collector.NewService(adapters, mgr, scorer.New(common.NewDefaultConfig().Scoring))
	return NewService(col, mgr, cfg)
}

func TestSchedulerRunsImmediatelyOnStart(t *testing.T) {
	adapter := &countingAdapter{name: "naver_finance"}
	s := newTestScheduler([]interfaces.SourceAdapter{adapter}, testSchedulerConfig("1h"))

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return adapter.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, s.IsRunning())
}

func TestSchedulerNeverOverlapsOneSource(t *testing.T) {
	// A cycle slower than both tick and interval must skip slots, not
	// stack concurrent runs.
	adapter := &countingAdapter{name: "hankyung", delay: 150 * time.Millisecond}
	s := newTestScheduler([]interfaces.SourceAdapter{adapter}, testSchedulerConfig("20ms"))

	require.NoError(t, s.Start())
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, s.Stop())

	assert.GreaterOrEqual(t, adapter.calls.Load(), int32(2))
	assert.Equal(t, int32(1), adapter.maxInFlight.Load())
}

func TestSchedulerReschedulesAfterCompletion(t *testing.T) {
	adapter := &countingAdapter{name: "mk_news"}
	s := newTestScheduler([]interfaces.SourceAdapter{adapter}, testSchedulerConfig("30ms"))

	require.NoError(t, s.Start())
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, s.Stop())

	// Immediate run plus several rescheduled cycles
	assert.GreaterOrEqual(t, adapter.calls.Load(), int32(3))
}

func TestSchedulerSourcesRunIndependently(t *testing.T) {
	slow := &countingAdapter{name: "krx_disclosure", delay: 400 * time.Millisecond}
	fast := &countingAdapter{name: "naver_finance"}
	s := newTestScheduler([]interfaces.SourceAdapter{slow, fast}, testSchedulerConfig("30ms"))

	require.NoError(t, s.Start())
	time.Sleep(350 * time.Millisecond)
	require.NoError(t, s.Stop())

	// The slow source blocking must not stop the fast one from cycling
	assert.GreaterOrEqual(t, fast.calls.Load(), int32(3))
	assert.Equal(t, int32(1), slow.maxInFlight.Load())
}

func TestSchedulerTriggerCollectionNow(t *testing.T) {
	adapter := &countingAdapter{name: "naver_finance"}
	s := newTestScheduler([]interfaces.SourceAdapter{adapter}, testSchedulerConfig("1h"))

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return adapter.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.TriggerCollectionNow()

	require.Eventually(t, func() bool {
		return adapter.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := newTestScheduler([]interfaces.SourceAdapter{&countingAdapter{name: "naver_finance"}}, testSchedulerConfig("1h"))

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestSchedulerStartTwiceFails(t *testing.T) {
	s := newTestScheduler([]interfaces.SourceAdapter{&countingAdapter{name: "naver_finance"}}, testSchedulerConfig("1h"))

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Error(t, s.Start())
}
