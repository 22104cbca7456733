package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jslee/stockpick/internal/store"
	"github.com/jslee/stockpick/pkg/logger"
)

// MaintenanceJob prunes old persisted passes and news
// ⭐ SSOT: 저장소 정리 스케줄은 이 Job에서만
type MaintenanceJob struct {
	passRepo  *store.SnapshotRepository
	newsRepo  *store.NewsRepository
	retention time.Duration
	logger    *logger.Logger
}

// NewMaintenanceJob creates a new maintenance job.
// 기본 보존 기간은 90일.
func NewMaintenanceJob(passRepo *store.SnapshotRepository, newsRepo *store.NewsRepository, log *logger.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		passRepo:  passRepo,
		newsRepo:  newsRepo,
		retention: 90 * 24 * time.Hour,
		logger:    log,
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "store_maintenance"
}

// Schedule returns the cron schedule (every Sunday at 3 AM)
func (j *MaintenanceJob) Schedule() string {
	return "0 0 3 * * 0"
}

// Run prunes records older than the retention window
func (j *MaintenanceJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.retention)
	j.logger.WithField("cutoff", cutoff.Format("2006-01-02")).Info("Starting store maintenance")

	passes, err := j.passRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune passes: %w", err)
	}

	news, err := j.newsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune news: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"passes_deleted": passes,
		"news_deleted":   news,
	}).Info("Store maintenance completed")

	return nil
}
