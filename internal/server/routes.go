package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Articles
	mux.HandleFunc("/api/news", s.app.NewsHandler.ListHandler)
	mux.HandleFunc("/api/news/", s.app.NewsHandler.GetHandler) // GET /{id}

	// API routes - Signals
	mux.HandleFunc("/api/signal/", s.app.SignalHandler.GetSignalHandler) // GET /{code}
	mux.HandleFunc("/api/signals", s.app.SignalHandler.BatchHandler)     // POST - batch
	mux.HandleFunc("/api/scan", s.app.SignalHandler.ScanHandler)

	// API routes - Collection health
	mux.HandleFunc("/api/stats", s.app.StatsHandler.StatsHandler)
	mux.HandleFunc("/api/stats/attempts", s.app.StatsHandler.RecentAttemptsHandler)

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/trigger-collection", s.app.SchedulerHandler.TriggerCollectionHandler)
	mux.HandleFunc("/api/scheduler/status", s.app.SchedulerHandler.StatusHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
