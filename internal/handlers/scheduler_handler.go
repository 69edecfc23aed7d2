package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/newsflow/internal/interfaces"
)

type SchedulerHandler struct {
	scheduler interfaces.SchedulerService
	logger    arbor.ILogger
}

func NewSchedulerHandler(scheduler interfaces.SchedulerService, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// TriggerCollectionHandler queues an out-of-schedule collection cycle.
// POST /api/scheduler/trigger-collection
func (h *SchedulerHandler) TriggerCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if !h.scheduler.IsRunning() {
		WriteError(w, http.StatusConflict, "scheduler is not running")
		return
	}

	h.scheduler.TriggerCollectionNow()
	WriteSuccess(w, "collection triggered")
}

// StatusHandler reports whether the scheduler loop is active.
// GET /api/scheduler/status
func (h *SchedulerHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.scheduler.IsRunning(),
	})
}
