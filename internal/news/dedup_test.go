package news

import (
	"testing"
	"time"

	"github.com/jslee/stockpick/internal/contracts"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestMerge_DedupByLink(t *testing.T) {
	batchA := []contracts.NewsItem{
		{Link: "https://n.example/1", Title: "first wins"},
		{Link: "https://n.example/2", Title: "unique A"},
	}
	batchB := []contracts.NewsItem{
		{Link: "https://n.example/1", Title: "later loses"},
		{Link: "https://n.example/3", Title: "unique B"},
		{Link: "", Title: "no link, skipped"},
	}

	merged := Merge(batchA, batchB)
	if len(merged) != 3 {
		t.Fatalf("Merge() returned %d items, want 3", len(merged))
	}

	for _, item := range merged {
		if item.Link == "https://n.example/1" && item.Title != "first wins" {
			t.Errorf("dedup kept %q, want first occurrence", item.Title)
		}
	}
}

func TestMerge_Ordering(t *testing.T) {
	now := time.Date(2026, 8, 25, 16, 0, 0, 0, time.UTC)

	items := []contracts.NewsItem{
		{Link: "https://n.example/old", PublishedAt: timePtr(now.Add(-2 * time.Hour))},
		{Link: "https://n.example/none"},
		{Link: "https://n.example/new", PublishedAt: timePtr(now)},
	}

	merged := Merge(items)
	wantOrder := []string{"https://n.example/new", "https://n.example/old", "https://n.example/none"}
	for i, want := range wantOrder {
		if merged[i].Link != want {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].Link, want)
		}
	}
}

func TestCountByTheme(t *testing.T) {
	items := []contracts.NewsItem{
		{Link: "1", ThemeCode: "theme-1"},
		{Link: "2", ThemeCode: "theme-1"},
		{Link: "3", ThemeCode: "theme-2"},
		{Link: "4"}, // 테마 미지정은 집계 제외
	}

	counts := CountByTheme(items)
	if counts["theme-1"] != 2 || counts["theme-2"] != 1 {
		t.Errorf("CountByTheme() = %v, want theme-1:2 theme-2:1", counts)
	}
	if _, ok := counts[""]; ok {
		t.Error("CountByTheme() counted items with no theme code")
	}
}

func TestFilterByTicker(t *testing.T) {
	items := []contracts.NewsItem{
		{Link: "1", Ticker: "005930"},
		{Link: "2", Ticker: "000660"},
		{Link: "3", Ticker: "005930"},
		{Link: "4", Ticker: "005930"},
	}

	got := FilterByTicker(items, "005930", 2)
	if len(got) != 2 {
		t.Fatalf("FilterByTicker() returned %d items, want 2 (limit)", len(got))
	}
	for _, item := range got {
		if item.Ticker != "005930" {
			t.Errorf("FilterByTicker() leaked ticker %s", item.Ticker)
		}
	}

	if got := FilterByTicker(items, "035720", 10); len(got) != 0 {
		t.Errorf("FilterByTicker() for absent ticker returned %d items, want 0", len(got))
	}
}
