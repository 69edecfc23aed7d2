// Package scheduler drives collection cycles at a cadence that follows
// the Korean market calendar: tight during trading hours, relaxed after
// close, minimal on weekends.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/services/collector"
)

// sourceState tracks one source's position in the collection cadence
type sourceState struct {
	adapter   interfaces.SourceAdapter
	running   bool
	nextDueAt time.Time
	lastRun   time.Time
	lastError string
}

// Service implements SchedulerService. Each source runs independently:
// a source still collecting when its next slot arrives skips that slot
// rather than queueing, so a slow site never builds a backlog.
type Service struct {
	collector *collector.Service
	storage   interfaces.StorageManager
	calendar  *common.MarketCalendar
	config    *common.SchedulerConfig
	cron      *cron.Cron
	logger    arbor.ILogger

	mu      sync.Mutex
	sources map[string]*sourceState
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewService creates a scheduler over the collector's adapters
func NewService(col *collector.Service, storage interfaces.StorageManager, config *common.SchedulerConfig) interfaces.SchedulerService {
	s := &Service{
		collector: col,
		storage:   storage,
		calendar:  common.NewMarketCalendar(config),
		config:    config,
		cron:      cron.New(cron.WithLocation(config.Location())),
		logger:    common.GetLogger(),
		sources:   make(map[string]*sourceState),
	}
	for _, adapter := range col.Adapters() {
		s.sources[adapter.Name()] = &sourceState{adapter: adapter}
	}
	return s
}

// Start launches the tick loop and the daily maintenance job. The first
// collection for every source runs immediately.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	now := time.Now()
	for _, state := range s.sources {
		state.nextDueAt = now
	}
	s.mu.Unlock()

	// Value-log GC and a stats summary once a day, off trading hours
	if _, err := s.cron.AddFunc("0 3 * * *", s.runMaintenance); err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}
	s.cron.Start()

	s.wg.Add(1)
	go s.tickLoop(ctx)

	s.logger.Info().Int("sources", len(s.sources)).
		Str("market_interval", s.config.MarketInterval).
		Str("after_hours_interval", s.config.AfterHoursInterval).
		Str("off_hours_interval", s.config.OffHoursInterval).
		Msg("Scheduler started")
	return nil
}

// Stop halts scheduling and waits for in-flight cycles up to the
// configured drain timeout
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	cronCtx := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronCtx.Done()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Scheduler stopped")
	case <-time.After(s.config.GetDrainTimeout()):
		s.logger.Warn().Msg("Scheduler drain timeout exceeded, abandoning in-flight cycles")
	}
	return nil
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TriggerCollectionNow marks every idle source due immediately
func (s *Service) TriggerCollectionNow() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, state := range s.sources {
		if !state.running {
			state.nextDueAt = now
		}
	}
	s.logger.Info().Msg("Out-of-schedule collection triggered")
}

// tickLoop polls due times. The tick is deliberately coarse; cadence
// precision is bounded by the tick interval, not by timer accuracy.
func (s *Service) tickLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.GetTickInterval())
	defer ticker.Stop()

	s.dispatchDue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatchDue(ctx)
		}
	}
}

// dispatchDue starts a collection cycle for every idle source whose
// due time has passed
func (s *Service) dispatchDue(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, state := range s.sources {
		if state.running || now.Before(state.nextDueAt) {
			continue
		}
		state.running = true

		s.wg.Add(1)
		go s.runCycle(ctx, name, state.adapter)
	}
}

// runCycle executes one collection for one source and schedules the
// next slot. The interval is chosen at completion time so a cycle that
// spans the market close reschedules on the after-hours cadence.
func (s *Service) runCycle(ctx context.Context, name string, adapter interfaces.SourceAdapter) {
	defer s.wg.Done()

	err := s.collector.CollectSource(ctx, adapter)

	now := time.Now()
	interval := s.calendar.CollectionInterval(now)

	s.mu.Lock()
	state := s.sources[name]
	state.running = false
	state.lastRun = now
	state.nextDueAt = now.Add(interval)
	if err != nil {
		state.lastError = err.Error()
	} else {
		state.lastError = ""
	}
	s.mu.Unlock()

	s.logger.Debug().Str("source", name).Dur("next_in", interval).Msg("cycle rescheduled")
}

// runMaintenance compacts the store and logs a daily summary
func (s *Service) runMaintenance() {
	if err := s.storage.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("storage gc failed")
	}

	stats, err := s.storage.AttemptStorage().Stats(24 * time.Hour)
	if err != nil {
		s.logger.Warn().Err(err).Msg("daily stats aggregation failed")
		return
	}
	s.logger.Info().Int("total_articles", stats.TotalArticles).
		Int("sources", len(stats.BySource)).Msg("daily maintenance complete")
}
