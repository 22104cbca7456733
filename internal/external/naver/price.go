package naver

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jslee/stockpick/internal/contracts"
)

// Price fetches the realtime price snapshot for one KRX ticker.
// ⭐ SSOT: Naver Finance 시세 조회는 이 함수에서만
// Redis 캐시가 있으면 read-through로 동작한다 (짧은 TTL).
func (c *Client) Price(ctx context.Context, ticker string) (*contracts.PriceSnapshot, error) {
	if c.cache != nil {
		var cached contracts.PriceSnapshot
		if found, _ := c.cache.Get(ctx, "price:"+ticker, &cached); found {
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, ticker)

	resp, err := c.httpClient.GetWithHeaders(ctx, url, c.defaultHeaders())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse price page: %w", err)
	}

	snap, err := parsePricePage(doc)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", ticker, err)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, "price:"+ticker, snap, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"price":  snap.Price,
	}).Debug("Fetched realtime price")

	return snap, nil
}

// parsePricePage extracts the price snapshot from the item main page.
// Naver Finance HTML 구조: .no_today/.no_exday 블록과 시세 테이블의 <em id=...> 값
func parsePricePage(doc *goquery.Document) (*contracts.PriceSnapshot, error) {
	snap := &contracts.PriceSnapshot{}

	priceText := doc.Find(".no_today .blind").First().Text()
	if strings.TrimSpace(priceText) == "" {
		return nil, fmt.Errorf("price not found in page")
	}
	snap.Price = parseNumber(priceText)

	// 전일비/등락률: .no_exday 아래 blind 2개 (변동폭, 변동률)
	exday := doc.Find(".no_exday .blind")
	if exday.Length() >= 2 {
		snap.Change = parseNumber(exday.Eq(0).Text())
		snap.ChangePercent = parseNumber(exday.Eq(1).Text())

		// 하락이면 부호 반영 (blind 텍스트는 절대값)
		if doc.Find(".no_exday .ico.down").Length() > 0 {
			snap.Change = -snap.Change
			snap.ChangePercent = -snap.ChangePercent
		}
	}

	// 투자정보 테이블의 식별자 붙은 값들
	if v := doc.Find("#_market_sum").Text(); v != "" {
		// 시가총액은 억원 단위 표기
		snap.MarketCap = parseNumber(strings.ReplaceAll(v, "조", "")) * 100_000_000
		if strings.Contains(v, "조") {
			snap.MarketCap = parseCompositeMarketCap(v)
		}
	}
	if v := doc.Find("#_per").Text(); v != "" {
		snap.PER = parseNumber(v)
	}
	if v := doc.Find("#_pbr").Text(); v != "" {
		snap.PBR = parseNumber(v)
	}
	if v := doc.Find("#_dvr").Text(); v != "" {
		snap.DividendYield = parseNumber(v)
	}

	// 52주 최고/최저
	week52 := doc.Find("#tab_con1 table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "52주최고")
	})
	if week52.Length() > 0 {
		vals := week52.First().Find("em")
		if vals.Length() >= 2 {
			snap.Week52High = parseNumber(vals.Eq(0).Text())
			snap.Week52Low = parseNumber(vals.Eq(1).Text())
		}
	}

	return snap, nil
}

// parseCompositeMarketCap parses "12조 3,456" (조 + 억원) into won
func parseCompositeMarketCap(s string) float64 {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "조", 2)

	total := parseNumber(parts[0]) * 1_000_000_000_000
	if len(parts) == 2 {
		total += parseNumber(parts[1]) * 100_000_000
	}
	return total
}
