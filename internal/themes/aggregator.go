package themes

import (
	"math"
	"sort"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/logger"
)

// Aggregator computes 0-100 theme scores and dense ranks.
// ⭐ SSOT: 테마 점수/랭킹/관련주 tier 분류는 여기서만
type Aggregator struct {
	cfg    config.ThemeConfig
	logger *logger.Logger
}

// New creates a new theme aggregator
func New(cfg config.ThemeConfig, log *logger.Logger) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		logger: log.WithField("module", "themes"),
	}
}

// Member is one constituent stock with its price snapshot captured at link time.
type Member struct {
	Ticker        string
	Name          string
	Price         float64
	ChangePercent float64
}

// Score combines member price movement with news volume into a 0-100 score.
// 구성 종목도 뉴스도 없으면 0점 — 신호 부재는 에러가 아니라 유효한 입력.
//
// 가격 항: 평균 |등락률|을 PriceSaturation%에서 포화시켜 0-100 정규화.
// 뉴스 항: n/(n+NewsHalfCount)로 포화 — NewsHalfCount건이면 50점.
func (a *Aggregator) Score(members []Member, newsCount int) float64 {
	priceTerm := 0.0
	if len(members) > 0 {
		sum := 0.0
		for _, m := range members {
			sum += math.Abs(m.ChangePercent)
		}
		avg := sum / float64(len(members))

		priceTerm = avg / a.cfg.PriceSaturation * 100
		if priceTerm > 100 {
			priceTerm = 100
		}
	}

	newsTerm := 0.0
	if newsCount > 0 {
		newsTerm = float64(newsCount) / float64(newsCount+a.cfg.NewsHalfCount) * 100
	}

	score := a.cfg.PriceWeight*priceTerm + a.cfg.NewsWeight*newsTerm
	return math.Round(score*10) / 10
}

// Classify assigns relevance tiers to theme members.
// |등락률| 내림차순(동률은 티커 오름차순)으로 정렬해 상위 Tier1Size개가 1차,
// 다음 Tier2Size개가 2차, 나머지 3차. 매 패스 전체 재계산 — 증분 조정 없음.
func (a *Aggregator) Classify(themeCode string, members []Member) []contracts.ThemeStockLink {
	sorted := make([]Member, len(members))
	copy(sorted, members)

	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := math.Abs(sorted[i].ChangePercent), math.Abs(sorted[j].ChangePercent)
		if ci != cj {
			return ci > cj
		}
		return sorted[i].Ticker < sorted[j].Ticker
	})

	links := make([]contracts.ThemeStockLink, 0, len(sorted))
	for i, m := range sorted {
		tier := 3
		switch {
		case i < a.cfg.Tier1Size:
			tier = 1
		case i < a.cfg.Tier1Size+a.cfg.Tier2Size:
			tier = 2
		}

		links = append(links, contracts.ThemeStockLink{
			ThemeCode:     themeCode,
			Ticker:        m.Ticker,
			Name:          m.Name,
			Tier:          tier,
			Price:         m.Price,
			ChangePercent: m.ChangePercent,
		})
	}

	return links
}

// Aggregate scores, classifies and ranks the full theme batch.
// 랭킹은 점수 내림차순, 동점은 테마 코드 오름차순 — 입력을 섞어 넣어도
// 결과 순위는 항상 동일하다.
func (a *Aggregator) Aggregate(
	inputs []contracts.ThemeInput,
	prices map[string]*contracts.PriceSnapshot,
	names map[string]string,
) []contracts.ThemeRecord {
	records := make([]contracts.ThemeRecord, 0, len(inputs))
	seen := make(map[string]bool)

	for _, in := range inputs {
		if in.ThemeCode == "" || seen[in.ThemeCode] {
			continue
		}
		seen[in.ThemeCode] = true

		members := a.resolveMembers(in.MemberTickers, prices, names)

		records = append(records, contracts.ThemeRecord{
			Code:       in.ThemeCode,
			Name:       in.Name,
			Score:      a.Score(members, in.NewsCount),
			ChangeRate: in.ChangeRate,
			StockCount: len(members),
			NewsCount:  in.NewsCount,
			Active:     true,
			Links:      a.Classify(in.ThemeCode, members),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Code < records[j].Code
	})

	for i := range records {
		records[i].Rank = i + 1
	}

	a.logger.WithFields(map[string]interface{}{
		"theme_count": len(records),
	}).Debug("Aggregated themes")

	return records
}

// resolveMembers builds member snapshots for the tickers we have data for.
// (테마, 종목) 쌍은 유일 — 중복 티커는 첫 등장만 남긴다.
func (a *Aggregator) resolveMembers(
	tickers []string,
	prices map[string]*contracts.PriceSnapshot,
	names map[string]string,
) []Member {
	members := make([]Member, 0, len(tickers))
	seen := make(map[string]bool)

	for _, ticker := range tickers {
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true

		m := Member{Ticker: ticker, Name: names[ticker]}
		if m.Name == "" {
			m.Name = ticker
		}
		if p, ok := prices[ticker]; ok && p != nil {
			m.Price = p.Price
			m.ChangePercent = p.ChangePercent
		}

		members = append(members, m)
	}

	return members
}
