package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/pkg/logger"
)

// ThemeHandler serves the ranked theme records
// ⭐ SSOT: 테마 조회 API는 이 구조체에서만
type ThemeHandler struct {
	store  *snapshot.Store
	logger *logger.Logger
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(store *snapshot.Store, log *logger.Logger) *ThemeHandler {
	return &ThemeHandler{
		store:  store,
		logger: log,
	}
}

// List returns all themes ordered by rank
// GET /api/themes
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	themes, err := h.store.ListThemes()
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No reconciliation pass has completed yet")
			return
		}
		h.logger.WithError(err).Error("Failed to list themes")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve themes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(themes),
		"results": themes,
	})
}

// Get returns one theme by its code, including member links
// GET /api/themes/{code}
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	themes, err := h.store.ListThemes()
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No reconciliation pass has completed yet")
			return
		}
		h.logger.WithError(err).Error("Failed to list themes")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve themes")
		return
	}

	for i := range themes {
		if themes[i].Code == code {
			respondJSON(w, http.StatusOK, themes[i])
			return
		}
	}

	respondError(w, http.StatusNotFound, "Theme not found in latest pass: "+code)
}
