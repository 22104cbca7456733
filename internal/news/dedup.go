package news

import (
	"sort"

	"github.com/jslee/stockpick/internal/contracts"
)

// Merge combines news items from multiple sources into one deduplicated list.
// 링크 URL이 유일한 dedup 키 — 같은 링크는 먼저 들어온 항목이 이긴다.
// 결과는 발행일 내림차순(발행일 없는 항목은 뒤), 동률은 링크 오름차순.
func Merge(batches ...[]contracts.NewsItem) []contracts.NewsItem {
	seen := make(map[string]bool)
	merged := make([]contracts.NewsItem, 0)

	for _, batch := range batches {
		for _, item := range batch {
			if item.Link == "" || seen[item.Link] {
				continue
			}
			seen[item.Link] = true
			merged = append(merged, item)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		pi, pj := merged[i].PublishedAt, merged[j].PublishedAt
		switch {
		case pi != nil && pj != nil && !pi.Equal(*pj):
			return pi.After(*pj)
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return merged[i].Link < merged[j].Link
	})

	return merged
}

// CountByTheme tallies merged items per theme code.
// ThemeAggregator의 뉴스 볼륨 항 입력으로 쓰인다.
func CountByTheme(items []contracts.NewsItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		if item.ThemeCode != "" {
			counts[item.ThemeCode]++
		}
	}
	return counts
}

// FilterByTicker returns items associated with one ticker, at most limit.
func FilterByTicker(items []contracts.NewsItem, ticker string, limit int) []contracts.NewsItem {
	out := make([]contracts.NewsItem, 0, limit)
	for _, item := range items {
		if item.Ticker != ticker {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
