package naver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jslee/stockpick/internal/contracts"
)

// maxNewsItems bounds how many headlines one pass collects
const maxNewsItems = 100

// News fetches the main finance news headlines.
// ⭐ SSOT: Naver Finance 뉴스 수집은 이 함수에서만
// 중복 제거는 수집기 몫이 아니다 — link 기준 dedup은 병합 단계에서.
func (c *Client) News(ctx context.Context) ([]contracts.NewsItem, error) {
	newsURL := c.baseURL + "/news/mainnews.naver"

	resp, err := c.httpClient.GetWithHeaders(ctx, newsURL, c.defaultHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch news list: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news list: %w", err)
	}

	items := c.parseNewsList(doc)
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}

	c.logger.WithField("count", len(items)).Info("Collected news headlines")
	return items, nil
}

// parseNewsList parses the main news list (.mainNewsList li blocks)
func (c *Client) parseNewsList(doc *goquery.Document) []contracts.NewsItem {
	var items []contracts.NewsItem

	doc.Find(".mainNewsList li").Each(func(_ int, block *goquery.Selection) {
		link := block.Find("dd.articleSubject a, dt.articleSubject a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		if strings.HasPrefix(href, "/") {
			href = c.baseURL + href
		}

		item := contracts.NewsItem{
			Link:  href,
			Title: title,
		}

		summary := block.Find("dd.articleSummary").First()
		item.Description = strings.TrimSpace(summary.Clone().Children().Remove().End().Text())
		item.Source = strings.TrimSpace(summary.Find(".press").Text())

		if ts := strings.TrimSpace(summary.Find(".wdate").Text()); ts != "" {
			if parsed, err := parseNewsTime(ts); err == nil {
				item.PublishedAt = &parsed
			}
		}

		items = append(items, item)
	})

	return items
}

// parseNewsTime parses the list page timestamp ("2026-08-25 16:03")
func parseNewsTime(s string) (time.Time, error) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return time.ParseInLocation("2006-01-02 15:04", s, loc)
}
