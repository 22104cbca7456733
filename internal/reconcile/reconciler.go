package reconcile

import (
	"fmt"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/logger"
)

// Reconciler merges a recommendation entry with its enrichment lookups into a
// presentation-ready StockRecord.
// ⭐ SSOT: 추천-시세-마스터 병합 규칙은 여기서만
//
// Reconcile은 순수 함수다: 외부 호출 없음, 같은 입력이면 byte 단위로 같은 출력.
// 시세/마스터 조회는 호출자가 미리 끝내서 넘겨야 한다.
type Reconciler struct {
	logger *logger.Logger
}

// New creates a new Reconciler
func New(log *logger.Logger) *Reconciler {
	return &Reconciler{logger: log.WithField("module", "reconciler")}
}

// Validate checks the mandatory fields of a recommendation entry.
// 실패는 해당 엔트리에만 치명적 — 배치는 계속된다.
func (r *Reconciler) Validate(rec *contracts.RecommendationEntry) error {
	if rec.Ticker == "" {
		return fmt.Errorf("%w: missing ticker", contracts.ErrInvalidRecommendation)
	}
	if rec.Score == nil {
		return fmt.Errorf("%w: ticker %s has no score", contracts.ErrInvalidRecommendation, rec.Ticker)
	}
	if *rec.Score < 0 || *rec.Score > 100 {
		return fmt.Errorf("%w: ticker %s score %d out of range [0,100]",
			contracts.ErrInvalidRecommendation, rec.Ticker, *rec.Score)
	}
	return nil
}

// Reconcile merges one recommendation with optional price and master lookups.
// price/master가 nil이면 해당 필드는 문서화된 zero-value로 degrade — 추정치 조작 없음.
func (r *Reconciler) Reconcile(
	rec *contracts.RecommendationEntry,
	price *contracts.PriceSnapshot,
	master *contracts.MasterEntry,
) (*contracts.StockRecord, error) {
	if err := r.Validate(rec); err != nil {
		return nil, err
	}

	score := *rec.Score
	sources := make(map[string]contracts.FieldSource)

	country := "US"
	if contracts.IsKoreanTicker(rec.Ticker) {
		country = "KR"
	}

	// 이름 해석 체인: 추천 → 마스터 → 티커 (항상 non-empty)
	koreanName := rec.Name
	sources["korean_name"] = contracts.SourcePrimary
	if koreanName == "" && master != nil && master.KrName != "" {
		koreanName = master.KrName
		sources["korean_name"] = contracts.SourceFallback
	}
	if koreanName == "" {
		koreanName = rec.Ticker
		sources["korean_name"] = contracts.SourceDefault
	}

	// 영문명: 마스터에 있으면 그대로, 없으면 한글명 — 빈 값은 절대 내보내지 않음
	englishName := koreanName
	sources["english_name"] = contracts.SourceFallback
	if master != nil && master.EnName != "" {
		englishName = master.EnName
		sources["english_name"] = contracts.SourcePrimary
	}

	sector := "기타"
	sources["sector"] = contracts.SourceDefault
	if master != nil && master.Sector != "" {
		sector = master.Sector
		sources["sector"] = contracts.SourcePrimary
	}

	market := ""
	sources["market"] = contracts.SourceDefault
	if master != nil && master.Market != "" {
		market = master.Market
		sources["market"] = contracts.SourcePrimary
	}

	record := &contracts.StockRecord{
		Ticker:        rec.Ticker,
		KoreanName:    koreanName,
		EnglishName:   englishName,
		Sector:        sector,
		Market:        market,
		Country:       country,
		Action:        rec.Action,
		Score:         score,
		AnalystRating: contracts.DerivedRating(score),
		Reasoning:     rec.Reasoning,
		TargetReturn:  rec.TargetReturn,
		RiskFactors:   rec.RiskFactors,
		Catalysts:     rec.Catalysts,
		Sources:       sources,
	}

	priceSource := contracts.SourceDefault
	if price != nil {
		record.Price = price.Price
		record.Change = price.Change
		record.ChangePercent = price.ChangePercent
		record.MarketCap = price.MarketCap
		record.PER = price.PER
		record.PBR = price.PBR
		record.DividendYield = price.DividendYield
		record.Week52High = price.Week52High
		record.Week52Low = price.Week52Low
		priceSource = contracts.SourcePrimary
	}
	for _, field := range []string{
		"price", "change", "change_percent", "market_cap",
		"per", "pbr", "dividend_yield", "week52_high", "week52_low",
	} {
		sources[field] = priceSource
	}

	record.MarketCapDisplay = FormatMarketCap(record.MarketCap, country)

	return record, nil
}
