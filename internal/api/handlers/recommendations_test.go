package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/pkg/logger"
)

func testRouter(store *snapshot.Store) http.Handler {
	log := logger.NewNop()
	r := mux.NewRouter()

	recs := NewRecommendationHandler(store, log)
	themes := NewThemeHandler(store, log)

	r.HandleFunc("/api/recommendations", recs.List).Methods("GET")
	r.HandleFunc("/api/recommendations/{ticker}", recs.Get).Methods("GET")
	r.HandleFunc("/api/themes", themes.List).Methods("GET")
	return r
}

func publishFixture(store *snapshot.Store) {
	store.Publish(&contracts.Snapshot{
		GeneratedAt: time.Now(),
		Engine:      "engine-v2",
		Stocks: []contracts.StockRecord{
			{Ticker: "005930", KoreanName: "삼성전자", Score: 92},
			{Ticker: "000660", KoreanName: "SK하이닉스", Score: 88},
		},
		Themes: []contracts.ThemeRecord{
			{Code: "theme-1", Name: "반도체", Score: 48.0, Rank: 1},
		},
	})
}

func TestRecommendationHandler_BeforeFirstPass(t *testing.T) {
	store := snapshot.NewStore(3, logger.NewNop())
	router := testRouter(store)

	req := httptest.NewRequest("GET", "/api/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendationHandler_List(t *testing.T) {
	store := snapshot.NewStore(3, logger.NewNop())
	publishFixture(store)
	router := testRouter(store)

	req := httptest.NewRequest("GET", "/api/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int                     `json:"count"`
		Results []contracts.StockRecord `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "005930", body.Results[0].Ticker, "highest score first")
}

func TestRecommendationHandler_Get(t *testing.T) {
	store := snapshot.NewStore(3, logger.NewNop())
	publishFixture(store)
	router := testRouter(store)

	req := httptest.NewRequest("GET", "/api/recommendations/000660", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var record contracts.StockRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "SK하이닉스", record.KoreanName)

	// 미등록 티커는 404
	req = httptest.NewRequest("GET", "/api/recommendations/999999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestThemeHandler_List(t *testing.T) {
	store := snapshot.NewStore(3, logger.NewNop())
	publishFixture(store)
	router := testRouter(store)

	req := httptest.NewRequest("GET", "/api/themes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int                     `json:"count"`
		Results []contracts.ThemeRecord `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "theme-1", body.Results[0].Code)
}
