package pipeline

import (
	"context"

	"github.com/jslee/stockpick/internal/contracts"
)

// Input sources for one reconciliation pass.
// 코어는 소스가 아니라 모양(shape)만 계약한다 — 스크레이퍼든 파일이든 무관.

// RecommendationSource supplies the AI engine's recommendation batch
type RecommendationSource interface {
	Recommendations(ctx context.Context) (*contracts.RecommendationBatch, error)
}

// PriceProvider resolves a live price snapshot for one ticker
type PriceProvider interface {
	Price(ctx context.Context, ticker string) (*contracts.PriceSnapshot, error)
}

// MasterProvider resolves the static master entry for one ticker
type MasterProvider interface {
	Lookup(ticker string) (*contracts.MasterEntry, bool)
}

// ThemeSource supplies the raw theme batch
type ThemeSource interface {
	Themes(ctx context.Context) ([]contracts.ThemeInput, error)
}

// NewsSource supplies collected news items
type NewsSource interface {
	News(ctx context.Context) ([]contracts.NewsItem, error)
}

// Persister stores a published snapshot for audit
type Persister interface {
	SavePass(ctx context.Context, snap *contracts.Snapshot) error
}
