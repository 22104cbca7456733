package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jslee/stockpick/internal/scheduler"
	"github.com/jslee/stockpick/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작",
	Long: `정합 패스 스케줄러를 시작합니다.

이 명령어는:
- 장 마감 후 정합 패스 실행 (PASS_SCHEDULE, 기본 평일 16시)
- 주간 저장소 정리 (DB 연결 시)

Example:
  go run ./cmd/stockpick scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stockpick Scheduler ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	log := a.logger

	sched := scheduler.New(log)

	if err := sched.AddJob(jobs.NewReconcileJob(a.runner, a.cfg, log)); err != nil {
		return err
	}

	if a.passRepo != nil && a.newsRepo != nil {
		if err := sched.AddJob(jobs.NewMaintenanceJob(a.passRepo, a.newsRepo, log)); err != nil {
			return err
		}
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler running")
	fmt.Printf("   reconcile_pass: %s\n", a.cfg.Pass.Schedule)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
