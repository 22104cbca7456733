package news

import (
	"sort"
	"strings"

	"github.com/jslee/stockpick/internal/contracts"
)

// Associate tags news items with the theme and stock they mention.
// 헤드라인/요약 텍스트에 테마명·종목명이 등장하면 연결한다.
// 긴 이름부터 대조해 "삼성전자우"가 "삼성전자"보다 먼저 잡히게 한다.
// 입력 순서와 무관하게 결정적 — 같은 길이는 코드/티커 오름차순.
func Associate(
	items []contracts.NewsItem,
	themes []contracts.ThemeInput,
	names map[string]string,
) []contracts.NewsItem {
	themeKeys := themeMatchers(themes)
	stockKeys := stockMatchers(names)

	out := make([]contracts.NewsItem, len(items))
	copy(out, items)

	for i := range out {
		text := out[i].Title + " " + out[i].Description

		if out[i].ThemeCode == "" {
			for _, m := range themeKeys {
				if strings.Contains(text, m.name) {
					out[i].ThemeCode = m.key
					break
				}
			}
		}

		if out[i].Ticker == "" {
			for _, m := range stockKeys {
				if strings.Contains(text, m.name) {
					out[i].Ticker = m.key
					break
				}
			}
		}
	}

	return out
}

type matcher struct {
	name string
	key  string
}

func themeMatchers(themes []contracts.ThemeInput) []matcher {
	matchers := make([]matcher, 0, len(themes))
	for _, t := range themes {
		if t.ThemeCode == "" || len(t.Name) < 2 {
			continue
		}
		matchers = append(matchers, matcher{name: t.Name, key: t.ThemeCode})
	}
	sortMatchers(matchers)
	return matchers
}

func stockMatchers(names map[string]string) []matcher {
	matchers := make([]matcher, 0, len(names))
	for ticker, name := range names {
		// 티커 fallback 이름은 기사 본문과 대조할 가치가 없다
		if ticker == "" || len(name) < 2 || name == ticker {
			continue
		}
		matchers = append(matchers, matcher{name: name, key: ticker})
	}
	sortMatchers(matchers)
	return matchers
}

func sortMatchers(matchers []matcher) {
	sort.Slice(matchers, func(i, j int) bool {
		if len(matchers[i].name) != len(matchers[j].name) {
			return len(matchers[i].name) > len(matchers[j].name)
		}
		return matchers[i].key < matchers[j].key
	})
}
