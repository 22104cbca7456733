package news

import (
	"testing"

	"github.com/jslee/stockpick/internal/contracts"
)

func TestAssociate_MatchesThemeAndStock(t *testing.T) {
	themes := []contracts.ThemeInput{
		{ThemeCode: "theme-1", Name: "반도체"},
		{ThemeCode: "theme-2", Name: "이차전지"},
	}
	names := map[string]string{
		"005930": "삼성전자",
		"000660": "SK하이닉스",
	}
	items := []contracts.NewsItem{
		{Link: "a", Title: "반도체 수출 역대 최대"},
		{Link: "b", Title: "삼성전자, 신형 파운드리 공정 공개"},
		{Link: "c", Title: "소재주 강세", Description: "이차전지 밸류체인과 SK하이닉스 전망"},
		{Link: "d", Title: "오늘의 증시 요약"},
	}

	got := Associate(items, themes, names)

	if got[0].ThemeCode != "theme-1" || got[0].Ticker != "" {
		t.Errorf("item a = theme %q ticker %q, want theme-1 / none", got[0].ThemeCode, got[0].Ticker)
	}
	if got[1].Ticker != "005930" {
		t.Errorf("item b ticker = %q, want 005930", got[1].Ticker)
	}
	// 요약 텍스트도 대조 대상
	if got[2].ThemeCode != "theme-2" || got[2].Ticker != "000660" {
		t.Errorf("item c = theme %q ticker %q, want theme-2 / 000660", got[2].ThemeCode, got[2].Ticker)
	}
	if got[3].ThemeCode != "" || got[3].Ticker != "" {
		t.Errorf("unrelated item got tagged: theme %q ticker %q", got[3].ThemeCode, got[3].Ticker)
	}

	// 입력은 그대로
	if items[0].ThemeCode != "" {
		t.Error("Associate must not mutate its input")
	}
}

func TestAssociate_LongerNameWins(t *testing.T) {
	names := map[string]string{
		"005930": "삼성전자",
		"005935": "삼성전자우",
	}
	items := []contracts.NewsItem{{Link: "a", Title: "삼성전자우 배당 확대 검토"}}

	got := Associate(items, nil, names)
	if got[0].Ticker != "005935" {
		t.Errorf("ticker = %q, want 005935 (longest name match)", got[0].Ticker)
	}
}

func TestAssociate_KeepsExistingTags(t *testing.T) {
	themes := []contracts.ThemeInput{{ThemeCode: "theme-1", Name: "반도체"}}
	items := []contracts.NewsItem{
		{Link: "a", Title: "반도체 뉴스", ThemeCode: "theme-9", Ticker: "000001"},
	}

	got := Associate(items, themes, nil)
	if got[0].ThemeCode != "theme-9" || got[0].Ticker != "000001" {
		t.Errorf("pre-tagged item was overwritten: theme %q ticker %q", got[0].ThemeCode, got[0].Ticker)
	}
}

func TestAssociate_SkipsTickerFallbackNames(t *testing.T) {
	// 마스터에 없는 종목은 이름이 티커 그대로다 — 본문 대조 대상이 아니다
	names := map[string]string{"000001": "000001"}
	items := []contracts.NewsItem{{Link: "a", Title: "000001 관련 공시"}}

	got := Associate(items, nil, names)
	if got[0].Ticker != "" {
		t.Errorf("ticker = %q, want empty for fallback name", got[0].Ticker)
	}
}
