// Package app wires configuration, storage, services, and HTTP handlers
// into one runnable application.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/handlers"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/services/collector"
	"github.com/ternarybob/newsflow/internal/services/scheduler"
	"github.com/ternarybob/newsflow/internal/services/scorer"
	"github.com/ternarybob/newsflow/internal/services/signals"
	"github.com/ternarybob/newsflow/internal/services/sources"
	"github.com/ternarybob/newsflow/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	Scorer           *scorer.Scorer
	CollectorService *collector.Service
	SchedulerService interfaces.SchedulerService
	SignalEngine     *signals.Engine

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	NewsHandler      *handlers.NewsHandler
	StatsHandler     *handlers.StatsHandler
	SignalHandler    *handlers.SignalHandler
	SchedulerHandler *handlers.SchedulerHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	adapters := sources.NewAdapters(cfg)
	if len(adapters) == 0 {
		storageManager.Close()
		return nil, fmt.Errorf("no sources enabled, check collector.sources in config")
	}

	app.Scorer = scorer.New(cfg.Scoring)
	app.CollectorService = collector.NewService(adapters, storageManager, app.Scorer)
	app.SchedulerService = scheduler.NewService(app.CollectorService, storageManager, &cfg.Scheduler)
	app.SignalEngine = signals.NewEngine(storageManager.ArticleStorage(), cfg.Signals)

	app.APIHandler = handlers.NewAPIHandler()
	app.NewsHandler = handlers.NewNewsHandler(storageManager.ArticleStorage(), logger)
	app.StatsHandler = handlers.NewStatsHandler(storageManager.AttemptStorage(), logger)
	app.SignalHandler = handlers.NewSignalHandler(app.SignalEngine, logger)
	app.SchedulerHandler = handlers.NewSchedulerHandler(app.SchedulerService, logger)

	sourceNames := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		sourceNames = append(sourceNames, adapter.Name())
	}
	logger.Info().Strs("sources", sourceNames).Msg("Application initialized")

	return app, nil
}

// Start launches the background collection scheduler
func (a *App) Start() error {
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close stops the scheduler and releases storage
func (a *App) Close() {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
