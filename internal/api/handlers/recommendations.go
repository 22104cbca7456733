package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/pkg/logger"
)

// RecommendationHandler serves the reconciled recommendation records
// ⭐ SSOT: 추천 조회 API는 이 구조체에서만
type RecommendationHandler struct {
	store  *snapshot.Store
	logger *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(store *snapshot.Store, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		store:  store,
		logger: log,
	}
}

// List returns all recommendations ordered by score descending
// GET /api/recommendations
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListRecommendations()
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No reconciliation pass has completed yet")
			return
		}
		h.logger.WithError(err).Error("Failed to list recommendations")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recommendations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"results": records,
	})
}

// Get returns one ticker's record from the latest pass
// GET /api/recommendations/{ticker}
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	record, err := h.store.GetRecommendation(ticker)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ticker not found in latest pass: "+ticker)
			return
		}
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to get recommendation")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve recommendation")
		return
	}

	respondJSON(w, http.StatusOK, record)
}
