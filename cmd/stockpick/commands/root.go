package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpick",
	Short: "Stockpick - AI 추천 정규화/정합 파이프라인",
	Long: `Stockpick Unified CLI

AI 엔진 추천을 실시간 시세·종목 마스터와 병합해
프레젠테이션용 스냅샷을 만드는 데이터 정합 파이프라인.

Usage:
  go run ./cmd/stockpick [command]

Examples:
  go run ./cmd/stockpick api
  go run ./cmd/stockpick pass
  go run ./cmd/stockpick scheduler
  go run ./cmd/stockpick status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
