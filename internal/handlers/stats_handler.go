package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/newsflow/internal/interfaces"
)

const defaultStatsWindow = 24 * time.Hour

type StatsHandler struct {
	attempts interfaces.AttemptStorage
	logger   arbor.ILogger
}

func NewStatsHandler(attempts interfaces.AttemptStorage, logger arbor.ILogger) *StatsHandler {
	return &StatsHandler{
		attempts: attempts,
		logger:   logger,
	}
}

// StatsHandler returns collection statistics over a trailing window.
// GET /api/stats?window=24h
func (h *StatsHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	window := defaultStatsWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "invalid window parameter, expected a duration like 24h")
			return
		}
		window = parsed
	}

	stats, err := h.attempts.Stats(window)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to aggregate collection stats")
		WriteError(w, http.StatusInternalServerError, "Failed to get statistics")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// RecentAttemptsHandler returns the latest collection attempts.
// GET /api/stats/attempts?source=&limit=
func (h *StatsHandler) RecentAttemptsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	source := r.URL.Query().Get("source")
	limit := QueryInt(r, "limit", 20)

	attempts, err := h.attempts.Recent(source, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load collection attempts")
		WriteError(w, http.StatusInternalServerError, "Failed to get attempts")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"count":    len(attempts),
	})
}
