package contracts

import "time"

// DroppedEntry records one rejected recommendation and why.
type DroppedEntry struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// PassSummary aggregates per-entry outcomes of one reconciliation pass.
// 개별 실패는 패스를 중단시키지 않고 여기에 집계된다.
type PassSummary struct {
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	Duration         time.Duration  `json:"duration"`
	TotalInput       int            `json:"total_input"`
	ValidCount       int            `json:"valid_count"`
	DroppedCount     int            `json:"dropped_count"`
	Dropped          []DroppedEntry `json:"dropped,omitempty"`
	EnrichmentMisses int            `json:"enrichment_misses"`
	ThemeCount       int            `json:"theme_count"`
	NewsCount        int            `json:"news_count"`
	Empty            bool           `json:"empty"`
}

// Snapshot is the complete, immutable output of one reconciliation pass.
// 발행 후 수정 금지 — 정정은 새 패스로만.
type Snapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Engine      string        `json:"engine"`
	Stocks      []StockRecord `json:"stocks"`
	Themes      []ThemeRecord `json:"themes"`
	News        []NewsItem    `json:"news,omitempty"`
	Summary     PassSummary   `json:"summary"`
}

// Get returns the stock record for a ticker from this snapshot.
func (s *Snapshot) Get(ticker string) (*StockRecord, bool) {
	for i := range s.Stocks {
		if s.Stocks[i].Ticker == ticker {
			return &s.Stocks[i], true
		}
	}
	return nil, false
}

// Age returns how stale this snapshot is.
// 소비자는 예외 대신 타임스탬프로 신선도를 판단한다.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.GeneratedAt)
}
