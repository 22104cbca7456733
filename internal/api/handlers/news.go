package handlers

import (
	"net/http"
	"strconv"

	"github.com/jslee/stockpick/internal/news"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/internal/store"
	"github.com/jslee/stockpick/pkg/logger"
)

// NewsHandler serves collected news headlines
// ⭐ SSOT: 뉴스 조회 API는 이 구조체에서만
type NewsHandler struct {
	store    *snapshot.Store
	newsRepo *store.NewsRepository // nil이면 DB 이력 조회 비활성
	logger   *logger.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(snapStore *snapshot.Store, newsRepo *store.NewsRepository, log *logger.Logger) *NewsHandler {
	return &NewsHandler{
		store:    snapStore,
		newsRepo: newsRepo,
		logger:   log,
	}
}

// List returns the latest pass's news, optionally filtered by ticker
// GET /api/news?ticker=005930&limit=20
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.store.Current()
	if !ok {
		respondError(w, http.StatusNotFound, "No reconciliation pass has completed yet")
		return
	}

	items := snap.News
	limit := parseLimit(r, 0)

	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		items = news.FilterByTicker(items, ticker, limit)
	} else if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(items),
		"results": items,
	})
}

// History returns persisted news across passes, newest first
// GET /api/news/history?limit=50
func (h *NewsHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.newsRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "News history requires a database")
		return
	}

	items, err := h.newsRepo.Recent(r.Context(), parseLimit(r, 50))
	if err != nil {
		h.logger.WithError(err).Error("Failed to query news history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve news history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(items),
		"results": items,
	})
}

func parseLimit(r *http.Request, defaultValue int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultValue
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return defaultValue
	}
	return limit
}
