package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/newsflow/internal/services/signals"
)

const (
	defaultSignalWindowDays = 1
	maxBatchStocks          = 50
)

var stockCodeParam = regexp.MustCompile(`^\d{6}$`)

type SignalHandler struct {
	engine *signals.Engine
	logger arbor.ILogger
}

func NewSignalHandler(engine *signals.Engine, logger arbor.ILogger) *SignalHandler {
	return &SignalHandler{
		engine: engine,
		logger: logger,
	}
}

// GetSignalHandler computes the signal for one stock.
// GET /api/signal/{code}?days=
func (h *SignalHandler) GetSignalHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/signal/")
	if !stockCodeParam.MatchString(code) {
		WriteError(w, http.StatusBadRequest, "stock code must be six digits")
		return
	}

	days := QueryInt(r, "days", defaultSignalWindowDays)
	if days < 1 {
		days = defaultSignalWindowDays
	}

	signal, err := h.engine.Signal(code, days)
	if err != nil {
		h.logger.Error().Err(err).Str("stock", code).Msg("Failed to compute signal")
		WriteError(w, http.StatusInternalServerError, "Failed to compute signal")
		return
	}

	WriteJSON(w, http.StatusOK, signal)
}

// batchRequest is the POST /api/signals payload
type batchRequest struct {
	Stocks []string `json:"stocks"`
	Days   int      `json:"days"`
}

// BatchHandler computes signals for several stocks in one call.
// POST /api/signals {"stocks": ["005930", ...], "days": 1}
func (h *SignalHandler) BatchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Stocks) == 0 {
		WriteError(w, http.StatusBadRequest, "stocks list is required")
		return
	}
	if len(req.Stocks) > maxBatchStocks {
		WriteError(w, http.StatusBadRequest, "too many stocks in one batch")
		return
	}
	for _, code := range req.Stocks {
		if !stockCodeParam.MatchString(code) {
			WriteError(w, http.StatusBadRequest, "stock code must be six digits: "+code)
			return
		}
	}

	days := req.Days
	if days < 1 {
		days = defaultSignalWindowDays
	}

	result, err := h.engine.SignalBatch(req.Stocks, days)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute signal batch")
		WriteError(w, http.StatusInternalServerError, "Failed to compute signals")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"signals": result,
		"count":   len(result),
	})
}

// ScanHandler classifies every stock mentioned today.
// GET /api/scan
func (h *SignalHandler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	scan, err := h.engine.ScanMarket()
	if err != nil {
		h.logger.Error().Err(err).Msg("Market scan failed")
		WriteError(w, http.StatusInternalServerError, "Market scan failed")
		return
	}

	WriteJSON(w, http.StatusOK, scan)
}
