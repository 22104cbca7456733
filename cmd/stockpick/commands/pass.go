package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// passCmd represents the pass command
var passCmd = &cobra.Command{
	Use:   "pass",
	Short: "정합 패스 1회 실행",
	Long: `Reconciliation 패스를 한 번 실행하고 종료합니다.

이 명령어는:
- 엔진 추천 배치 로드
- 시세/테마/뉴스 수집 및 병합
- 스냅샷 발행 (DB가 있으면 영속화)

Example:
  go run ./cmd/stockpick pass`,
	RunE: runPass,
}

func init() {
	rootCmd.AddCommand(passCmd)
}

func runPass(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stockpick Reconciliation Pass ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	snap, err := a.runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("reconciliation pass: %w", err)
	}

	fmt.Printf("\n✅ Pass completed in %s\n", snap.Summary.Duration.Round(time.Millisecond))
	fmt.Printf("   Input entries : %d\n", snap.Summary.TotalInput)
	fmt.Printf("   Valid records : %d\n", snap.Summary.ValidCount)
	fmt.Printf("   Dropped       : %d\n", snap.Summary.DroppedCount)
	fmt.Printf("   Enrich misses : %d\n", snap.Summary.EnrichmentMisses)
	fmt.Printf("   Themes        : %d\n", snap.Summary.ThemeCount)
	fmt.Printf("   News items    : %d\n", snap.Summary.NewsCount)

	for _, dropped := range snap.Summary.Dropped {
		fmt.Printf("   ⚠ dropped %s: %s\n", dropped.Ticker, dropped.Reason)
	}

	return nil
}
