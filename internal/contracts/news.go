package contracts

import "time"

// NewsItem is a single collected news article.
// Link가 유일한 dedup 키 — 같은 링크면 다른 필드가 달라도 같은 기사.
type NewsItem struct {
	Link        string     `json:"link"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ThemeCode   string     `json:"theme_code,omitempty"`
	Ticker      string     `json:"ticker,omitempty"`
}
