package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/newsflow/internal/interfaces"
	"github.com/ternarybob/newsflow/internal/models"
)

const defaultNewsLimit = 50

type NewsHandler struct {
	articles interfaces.ArticleStorage
	logger   arbor.ILogger
}

func NewNewsHandler(articles interfaces.ArticleStorage, logger arbor.ILogger) *NewsHandler {
	return &NewsHandler{
		articles: articles,
		logger:   logger,
	}
}

// ListHandler returns articles matching the query filters, newest first.
// GET /api/news?source=&stock=&keyword=&from=&to=&min_overall=&min_sentiment=&max_sentiment=&limit=
func (h *NewsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	filter := &models.ArticleFilter{
		Source:       query.Get("source"),
		StockCode:    query.Get("stock"),
		Keyword:      query.Get("keyword"),
		MinOverall:   QueryFloat(r, "min_overall"),
		MinSentiment: QueryFloat(r, "min_sentiment"),
		MaxSentiment: QueryFloat(r, "max_sentiment"),
		Limit:        QueryInt(r, "limit", defaultNewsLimit),
	}

	if raw := query.Get("from"); raw != "" {
		from, err := parseTimeParam(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid from parameter, expected RFC3339 or YYYY-MM-DD")
			return
		}
		filter.From = from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := parseTimeParam(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid to parameter, expected RFC3339 or YYYY-MM-DD")
			return
		}
		filter.To = to
	}

	articles, err := h.articles.Query(filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to query articles")
		WriteError(w, http.StatusInternalServerError, "Failed to query articles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"count":    len(articles),
	})
}

// GetHandler returns one article by ID.
// GET /api/news/{id}
func (h *NewsHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/news/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "article ID is required")
		return
	}

	article, err := h.articles.GetByID(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "article not found")
		return
	}

	WriteJSON(w, http.StatusOK, article)
}

// parseTimeParam accepts RFC3339 timestamps or bare dates
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}
