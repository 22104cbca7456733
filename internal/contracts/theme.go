package contracts

// ThemeInput is the raw theme batch shape consumed from the scraper/AI side.
type ThemeInput struct {
	ThemeCode     string   `json:"theme_code"`
	Name          string   `json:"name"`
	ChangeRate    string   `json:"change_rate,omitempty"`
	MemberTickers []string `json:"member_tickers"`
	NewsCount     int      `json:"news_count"`
}

// ThemeStockLink associates one stock with a theme at a relevance tier.
// 가격/등락률은 링크 생성 시점 스냅샷 — 이후 갱신하지 않는다.
type ThemeStockLink struct {
	ThemeCode     string  `json:"theme_code"`
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Tier          int     `json:"tier"` // 1=핵심, 2=주요, 3=기타
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// ThemeRecord is the scored, ranked theme produced by one pass.
type ThemeRecord struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Score      float64          `json:"score"` // 0-100
	ChangeRate string           `json:"change_rate,omitempty"`
	StockCount int              `json:"stock_count"`
	NewsCount  int              `json:"news_count"`
	Rank       int              `json:"rank"` // 1-based, dense
	Active     bool             `json:"active"`
	Links      []ThemeStockLink `json:"links,omitempty"`
}
