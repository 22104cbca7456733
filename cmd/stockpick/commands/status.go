package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jslee/stockpick/pkg/config"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "실행 중인 API 서버 상태 확인",
	Long: `실행 중인 API 서버의 스냅샷 상태를 조회합니다.

Example:
  go run ./cmd/stockpick status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://localhost:%s/api/pass/status", cfg.Port)

	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("❌ API server not reachable on port %s\n", cfg.Port)
		return err
	}
	defer resp.Body.Close()

	var status struct {
		HasSnapshot bool      `json:"has_snapshot"`
		GeneratedAt time.Time `json:"generated_at"`
		AgeSeconds  float64   `json:"age_seconds"`
		Engine      string    `json:"engine"`
		Summary     struct {
			ValidCount   int  `json:"valid_count"`
			DroppedCount int  `json:"dropped_count"`
			ThemeCount   int  `json:"theme_count"`
			Empty        bool `json:"empty"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}

	fmt.Println("=== Stockpick Status ===")
	if !status.HasSnapshot {
		fmt.Println("⚠ No reconciliation pass has completed yet")
		return nil
	}

	fmt.Printf("Generated at : %s\n", status.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("Age          : %s\n", (time.Duration(status.AgeSeconds) * time.Second).Round(time.Second))
	fmt.Printf("Engine       : %s\n", status.Engine)
	fmt.Printf("Valid records: %d\n", status.Summary.ValidCount)
	fmt.Printf("Dropped      : %d\n", status.Summary.DroppedCount)
	fmt.Printf("Themes       : %d\n", status.Summary.ThemeCount)
	if status.Summary.Empty {
		fmt.Println("⚠ Latest snapshot is empty")
	}

	return nil
}
