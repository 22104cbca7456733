package jobs

import (
	"context"
	"fmt"

	"github.com/jslee/stockpick/internal/pipeline"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/logger"
)

// ReconcileJob runs the daily reconciliation pass
// ⭐ SSOT: 패스 스케줄은 이 Job에서만
type ReconcileJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewReconcileJob creates a new reconcile job
func NewReconcileJob(runner *pipeline.Runner, cfg *config.Config, log *logger.Logger) *ReconcileJob {
	return &ReconcileJob{
		runner:   runner,
		schedule: cfg.Pass.Schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ReconcileJob) Name() string {
	return "reconcile_pass"
}

// Schedule returns the cron schedule (default: 4 PM on weekdays, after market close)
func (j *ReconcileJob) Schedule() string {
	return j.schedule
}

// Run executes one reconciliation pass
func (j *ReconcileJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled reconciliation pass")

	snap, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation pass: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"valid":   snap.Summary.ValidCount,
		"dropped": snap.Summary.DroppedCount,
		"themes":  snap.Summary.ThemeCount,
	}).Info("Scheduled reconciliation pass completed")

	return nil
}
