package contracts

// FieldSource tags where an enriched field value came from.
// 값이 이상할 때 로직을 다시 추적하지 않고 출처만 보면 되게 한다.
type FieldSource string

const (
	SourcePrimary  FieldSource = "primary"  // 원 소스에서 그대로
	SourceFallback FieldSource = "fallback" // 대체 경로로 채움
	SourceDefault  FieldSource = "default"  // zero-value degrade
)

// RecommendationEntry is the raw recommendation produced by the external AI engine.
// Score가 포인터인 이유: 엔진이 점수를 누락하면 0으로 둔갑시키지 않고 거부해야 함.
type RecommendationEntry struct {
	Ticker       string   `json:"ticker"`
	Name         string   `json:"name,omitempty"`
	Action       string   `json:"action"`
	Score        *int     `json:"score"`
	Reasoning    string   `json:"reasoning,omitempty"`
	TargetReturn string   `json:"target_return,omitempty"`
	RiskFactors  []string `json:"risk_factors,omitempty"`
	Catalysts    []string `json:"catalysts,omitempty"`
}

// RecommendationBatch is one engine run's worth of recommendation entries.
type RecommendationBatch struct {
	Engine      string                `json:"engine"`
	GeneratedAt string                `json:"generated_at,omitempty"`
	Entries     []RecommendationEntry `json:"entries"`
}

// PriceSnapshot holds live price/valuation figures for one ticker.
// 외부 시세 소스가 제공 — 없으면 StockRecord는 zero-value로 degrade된다.
type PriceSnapshot struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	PER           float64 `json:"per"`
	PBR           float64 `json:"pbr"`
	DividendYield float64 `json:"dividend_yield"`
	Week52High    float64 `json:"week52_high"`
	Week52Low     float64 `json:"week52_low"`
}

// MasterEntry is the static stock master record for one ticker.
type MasterEntry struct {
	KrName string `json:"kr_name"`
	EnName string `json:"en_name,omitempty"`
	Sector string `json:"sector"`
	Market string `json:"market"`
}

// StockRecord is the presentation-ready merged record for one recommended ticker.
// 한 번의 reconciliation pass가 생성하며 이후 불변.
type StockRecord struct {
	Ticker        string  `json:"ticker"`
	KoreanName    string  `json:"korean_name"`
	EnglishName   string  `json:"english_name"`
	Sector        string  `json:"sector"`
	Market        string  `json:"market"`
	Country       string  `json:"country"`
	Action        string  `json:"action"`
	Score         int     `json:"score"`
	AnalystRating float64 `json:"analyst_rating"`

	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	MarketCap        float64 `json:"market_cap"`
	MarketCapDisplay string  `json:"market_cap_display"`
	PER              float64 `json:"per"`
	PBR              float64 `json:"pbr"`
	DividendYield    float64 `json:"dividend_yield"`
	Week52High       float64 `json:"week52_high"`
	Week52Low        float64 `json:"week52_low"`

	Reasoning    string   `json:"reasoning,omitempty"`
	TargetReturn string   `json:"target_return,omitempty"`
	RiskFactors  []string `json:"risk_factors,omitempty"`
	Catalysts    []string `json:"catalysts,omitempty"`

	// Sources maps field name to provenance for every enrichable field.
	Sources map[string]FieldSource `json:"sources"`
}

// IsKoreanTicker reports whether a ticker looks like a KRX code (all digits).
func IsKoreanTicker(ticker string) bool {
	if ticker == "" {
		return false
	}
	for _, r := range ticker {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
