package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jslee/stockpick/internal/api"
	"github.com/jslee/stockpick/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 최신 스냅샷 조회 엔드포인트 제공
- 패스 트리거/상태 엔드포인트 제공
- WebSocket 스냅샷 스트림 제공

Endpoints:
  GET  /health                       - Health check
  GET  /api/recommendations          - 추천 목록 (점수 내림차순)
  GET  /api/recommendations/{ticker} - 종목별 추천 조회
  GET  /api/themes                   - 테마 랭킹
  GET  /api/news                     - 최신 패스 뉴스
  POST /api/pass/run                 - 패스 트리거
  GET  /api/pass/status              - 스냅샷 신선도/요약
  GET  /api/stream                   - WebSocket 스트림

Example:
  go run ./cmd/stockpick api
  go run ./cmd/stockpick api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort    string
	runOnStart bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
	apiCmd.Flags().BoolVar(&runOnStart, "run-pass", false, "서버 시작 직후 패스 1회 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stockpick API Server ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.logger

	// Handlers
	h := api.Handlers{
		Recommendations: handlers.NewRecommendationHandler(a.store, log),
		Themes:          handlers.NewThemeHandler(a.store, log),
		News:            handlers.NewNewsHandler(a.store, a.newsRepo, log),
		Pass:            handlers.NewPassHandler(a.runner, a.store, a.passRepo, log),
		Stream:          handlers.NewStreamHandler(a.store, log),
	}

	router := api.NewRouter(h, log)
	server := api.New(a.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// 콜드 스타트 회피용: 시작 직후 패스 1회
	if runOnStart {
		go func() {
			if _, err := a.runner.Run(context.Background()); err != nil {
				log.WithError(err).Error("Initial pass failed")
			}
		}()
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
