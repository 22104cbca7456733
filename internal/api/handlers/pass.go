package handlers

import (
	"net/http"
	"time"

	"github.com/jslee/stockpick/internal/pipeline"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/internal/store"
	"github.com/jslee/stockpick/pkg/logger"
)

// PassHandler triggers and reports on reconciliation passes
// ⭐ SSOT: 패스 제어 API는 이 구조체에서만
type PassHandler struct {
	runner   *pipeline.Runner
	store    *snapshot.Store
	passRepo *store.SnapshotRepository // nil이면 DB 이력 조회 비활성
	logger   *logger.Logger
}

// NewPassHandler creates a new pass handler
func NewPassHandler(runner *pipeline.Runner, snapStore *snapshot.Store, passRepo *store.SnapshotRepository, log *logger.Logger) *PassHandler {
	return &PassHandler{
		runner:   runner,
		store:    snapStore,
		passRepo: passRepo,
		logger:   log,
	}
}

// Run triggers a reconciliation pass and waits for it to complete
// POST /api/pass/run
func (h *PassHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Reconciliation pass triggered via API")

	snap, err := h.runner.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Triggered pass failed")
		respondError(w, http.StatusInternalServerError, "Reconciliation pass failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"summary": snap.Summary,
	})
}

// Status returns the current snapshot's freshness and summary
// GET /api/pass/status
func (h *PassHandler) Status(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.store.Current()
	if !ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"has_snapshot": false,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"has_snapshot": true,
		"generated_at": snap.GeneratedAt,
		"age_seconds":  snap.Age(time.Now()).Seconds(),
		"engine":       snap.Engine,
		"summary":      snap.Summary,
	})
}

// History returns persisted pass summaries, newest first
// GET /api/pass/history?limit=10
func (h *PassHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.passRepo == nil {
		respondError(w, http.StatusServiceUnavailable, "Pass history requires a database")
		return
	}

	rows, err := h.passRepo.LatestSummaries(r.Context(), parseLimit(r, 10))
	if err != nil {
		h.logger.WithError(err).Error("Failed to query pass history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve pass history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(rows),
		"results": rows,
	})
}
