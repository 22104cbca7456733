package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jslee/stockpick/internal/external/aiengine"
	"github.com/jslee/stockpick/internal/external/naver"
	"github.com/jslee/stockpick/internal/master"
	"github.com/jslee/stockpick/internal/pipeline"
	"github.com/jslee/stockpick/internal/reconcile"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/internal/store"
	"github.com/jslee/stockpick/internal/themes"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/database"
	"github.com/jslee/stockpick/pkg/httputil"
	"github.com/jslee/stockpick/pkg/logger"
	"github.com/jslee/stockpick/pkg/redis"
)

// app bundles the wired components every command starts from.
// ⭐ SSOT: 컴포넌트 조립은 이 파일에서만
type app struct {
	cfg    *config.Config
	logger *logger.Logger

	db    *database.DB    // nil이면 영속화/이력 비활성
	redis *redis.Client

	store    *snapshot.Store
	runner   *pipeline.Runner
	passRepo *store.SnapshotRepository
	newsRepo *store.NewsRepository
}

// bootstrap loads config and wires the full pipeline.
// DB와 Redis는 선택 사항 — 연결 실패는 경고로 degrade한다.
func bootstrap() (*app, error) {
	if err := applyGlobalFlags(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	a := &app{cfg: cfg, logger: log}

	// Optional persistence
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Database unavailable, running without persistence")
		} else {
			a.db = db
			a.passRepo = store.NewSnapshotRepository(db.Pool, log)
			a.newsRepo = store.NewNewsRepository(db.Pool, log)

			ctx := context.Background()
			if err := a.passRepo.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			if err := a.newsRepo.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			log.Info("Connected to database")
		}
	}

	// Optional price cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without price cache")
	} else {
		a.redis = redisClient
	}

	var priceCache *redis.Cache
	if a.redis != nil && a.redis.Enabled() {
		priceCache = redis.NewCache(a.redis, "stockpick")
	}

	// External clients
	httpClient := httputil.New(log)
	naverClient := naver.New(cfg, httpClient, priceCache, log)
	engineClient := aiengine.New(cfg, httputil.NewWithTimeout(log, cfg.Engine.Timeout), log)

	// Static master
	stockMaster, err := master.LoadFile(cfg.Pass.MasterFile, log)
	if err != nil {
		return nil, fmt.Errorf("load stock master: %w", err)
	}

	// Core pipeline
	a.store = snapshot.NewStore(cfg.Pass.HistoryLimit, log)

	opts := pipeline.Options{
		ThemeSource: naverClient,
		NewsSource:  naverClient,
	}
	if a.passRepo != nil {
		opts.Persister = store.NewPassPersister(a.passRepo, a.newsRepo)
	}

	a.runner = pipeline.NewRunner(
		engineClient,
		naverClient,
		stockMaster,
		reconcile.New(log),
		themes.New(cfg.Theme, log),
		a.store,
		cfg.Pass,
		log,
		opts,
	)

	return a, nil
}

// applyGlobalFlags folds the persistent CLI flags into the environment
// before config.Load reads it. --config는 기본 .env 탐색보다 우선한다.
func applyGlobalFlags() error {
	if configFile != "" {
		if err := godotenv.Overload(configFile); err != nil {
			return fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
	}
	return nil
}

// close releases held connections
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
