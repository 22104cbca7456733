package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jslee/stockpick/internal/api/handlers"
	"github.com/jslee/stockpick/pkg/logger"
)

// Handlers bundles everything the router exposes
type Handlers struct {
	Recommendations *handlers.RecommendationHandler
	Themes          *handlers.ThemeHandler
	News            *handlers.NewsHandler
	Pass            *handlers.PassHandler
	Stream          *handlers.StreamHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Recommendation endpoints
	api.HandleFunc("/recommendations", h.Recommendations.List).Methods("GET")
	api.HandleFunc("/recommendations/{ticker}", h.Recommendations.Get).Methods("GET")

	// Theme endpoints
	api.HandleFunc("/themes", h.Themes.List).Methods("GET")
	api.HandleFunc("/themes/{code}", h.Themes.Get).Methods("GET")

	// News endpoints
	api.HandleFunc("/news", h.News.List).Methods("GET")
	api.HandleFunc("/news/history", h.News.History).Methods("GET")

	// Pass control endpoints
	api.HandleFunc("/pass/run", h.Pass.Run).Methods("POST")
	api.HandleFunc("/pass/status", h.Pass.Status).Methods("GET")
	api.HandleFunc("/pass/history", h.Pass.History).Methods("GET")

	// Realtime stream
	api.HandleFunc("/stream", h.Stream.Serve).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stockpick-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
