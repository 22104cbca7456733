package reconcile

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/logger"
)

func intPtr(v int) *int { return &v }

func TestReconciler_Validate(t *testing.T) {
	r := New(logger.NewNop())

	tests := []struct {
		name    string
		rec     contracts.RecommendationEntry
		wantErr bool
	}{
		{"valid entry", contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(85)}, false},
		{"boundary zero", contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(0)}, false},
		{"boundary hundred", contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(100)}, false},
		{"missing ticker", contracts.RecommendationEntry{Score: intPtr(85)}, true},
		{"missing score", contracts.RecommendationEntry{Ticker: "005930"}, true},
		{"score below range", contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(-1)}, true},
		{"score above range", contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(&tt.rec)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, contracts.ErrInvalidRecommendation) {
				t.Errorf("Validate() error %v is not ErrInvalidRecommendation", err)
			}
		})
	}
}

func TestReconciler_Reconcile_NameFallbackChain(t *testing.T) {
	r := New(logger.NewNop())

	tests := []struct {
		name       string
		rec        contracts.RecommendationEntry
		master     *contracts.MasterEntry
		wantKorean string
		wantSource contracts.FieldSource
	}{
		{
			name:       "recommendation name wins",
			rec:        contracts.RecommendationEntry{Ticker: "005930", Name: "삼성전자", Score: intPtr(85)},
			master:     &contracts.MasterEntry{KrName: "삼성전자(마스터)"},
			wantKorean: "삼성전자",
			wantSource: contracts.SourcePrimary,
		},
		{
			name:       "master fills missing name",
			rec:        contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(85)},
			master:     &contracts.MasterEntry{KrName: "삼성전자"},
			wantKorean: "삼성전자",
			wantSource: contracts.SourceFallback,
		},
		{
			name:       "ticker is the last resort",
			rec:        contracts.RecommendationEntry{Ticker: "005930", Score: intPtr(85)},
			master:     nil,
			wantKorean: "005930",
			wantSource: contracts.SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := r.Reconcile(&tt.rec, nil, tt.master)
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if record.KoreanName != tt.wantKorean {
				t.Errorf("KoreanName = %q, want %q", record.KoreanName, tt.wantKorean)
			}
			if record.Sources["korean_name"] != tt.wantSource {
				t.Errorf("korean_name source = %q, want %q", record.Sources["korean_name"], tt.wantSource)
			}
		})
	}
}

func TestReconciler_Reconcile_EnglishNameNeverEmpty(t *testing.T) {
	r := New(logger.NewNop())

	rec := contracts.RecommendationEntry{Ticker: "005930", Name: "삼성전자", Score: intPtr(85)}

	// 마스터 없음 → 영문명은 한글명으로 채움
	record, err := r.Reconcile(&rec, nil, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if record.EnglishName != record.KoreanName {
		t.Errorf("EnglishName = %q, want fallback to KoreanName %q", record.EnglishName, record.KoreanName)
	}

	// 마스터 영문명이 있으면 그대로
	record, err = r.Reconcile(&rec, nil, &contracts.MasterEntry{EnName: "Samsung Electronics"})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if record.EnglishName != "Samsung Electronics" {
		t.Errorf("EnglishName = %q, want %q", record.EnglishName, "Samsung Electronics")
	}
}

func TestReconciler_Reconcile_PriceDegradation(t *testing.T) {
	r := New(logger.NewNop())

	rec := contracts.RecommendationEntry{Ticker: "005930", Name: "삼성전자", Score: intPtr(85)}

	record, err := r.Reconcile(&rec, nil, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if record.Price != 0 || record.MarketCap != 0 || record.PER != 0 {
		t.Errorf("price fields should degrade to zero, got price=%v cap=%v per=%v",
			record.Price, record.MarketCap, record.PER)
	}
	if record.MarketCapDisplay != "N/A" {
		t.Errorf("MarketCapDisplay = %q, want N/A", record.MarketCapDisplay)
	}
	for _, field := range []string{"price", "market_cap", "per"} {
		if record.Sources[field] != contracts.SourceDefault {
			t.Errorf("source of %s = %q, want default", field, record.Sources[field])
		}
	}

	// 시세가 있으면 전부 primary
	price := &contracts.PriceSnapshot{Price: 71500, ChangePercent: 1.2, MarketCap: 427_000_000_000_000}
	record, err = r.Reconcile(&rec, price, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if record.Price != 71500 {
		t.Errorf("Price = %v, want 71500", record.Price)
	}
	if record.Sources["price"] != contracts.SourcePrimary {
		t.Errorf("price source = %q, want primary", record.Sources["price"])
	}
	if record.MarketCapDisplay != "427.0조원" {
		t.Errorf("MarketCapDisplay = %q, want 427.0조원", record.MarketCapDisplay)
	}
}

func TestReconciler_Reconcile_Deterministic(t *testing.T) {
	r := New(logger.NewNop())

	rec := contracts.RecommendationEntry{
		Ticker:      "000660",
		Name:        "SK하이닉스",
		Action:      "BUY",
		Score:       intPtr(92),
		Reasoning:   "HBM 수요 지속",
		RiskFactors: []string{"메모리 사이클"},
	}
	price := &contracts.PriceSnapshot{Price: 178000, Change: 3000, ChangePercent: 1.71}
	master := &contracts.MasterEntry{KrName: "SK하이닉스", EnName: "SK hynix", Sector: "반도체", Market: "KOSPI"}

	first, err := r.Reconcile(&rec, price, master)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	second, err := r.Reconcile(&rec, price, master)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reconcile() is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}

	if first.AnalystRating != 4.6 {
		t.Errorf("AnalystRating = %v, want 4.6 for score 92", first.AnalystRating)
	}
	if first.Country != "KR" {
		t.Errorf("Country = %q, want KR", first.Country)
	}
}

func TestReconciler_Reconcile_DefaultSector(t *testing.T) {
	r := New(logger.NewNop())

	rec := contracts.RecommendationEntry{Ticker: "AAPL", Name: "애플", Score: intPtr(80)}

	record, err := r.Reconcile(&rec, nil, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if record.Sector != "기타" {
		t.Errorf("Sector = %q, want 기타", record.Sector)
	}
	if record.Country != "US" {
		t.Errorf("Country = %q, want US", record.Country)
	}
}
