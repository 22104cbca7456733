package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/master"
	"github.com/jslee/stockpick/internal/reconcile"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/internal/themes"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/logger"
)

func intPtr(v int) *int { return &v }

type fakeRecSource struct {
	batch *contracts.RecommendationBatch
	err   error
}

func (f *fakeRecSource) Recommendations(ctx context.Context) (*contracts.RecommendationBatch, error) {
	return f.batch, f.err
}

type fakePriceSource struct {
	prices map[string]*contracts.PriceSnapshot
}

func (f *fakePriceSource) Price(ctx context.Context, ticker string) (*contracts.PriceSnapshot, error) {
	p, ok := f.prices[ticker]
	if !ok {
		return nil, contracts.ErrEnrichmentUnavailable
	}
	return p, nil
}

type fakeThemeSource struct {
	inputs []contracts.ThemeInput
	err    error
}

func (f *fakeThemeSource) Themes(ctx context.Context) ([]contracts.ThemeInput, error) {
	return f.inputs, f.err
}

type fakeNewsSource struct {
	items []contracts.NewsItem
	err   error
}

func (f *fakeNewsSource) News(ctx context.Context) ([]contracts.NewsItem, error) {
	return f.items, f.err
}

type fakePersister struct {
	saved *contracts.Snapshot
	err   error
}

func (f *fakePersister) SavePass(ctx context.Context, snap *contracts.Snapshot) error {
	f.saved = snap
	return f.err
}

func testRunner(t *testing.T, rec RecommendationSource, price PriceProvider, opts Options) (*Runner, *snapshot.Store) {
	t.Helper()

	log := logger.NewNop()
	store := snapshot.NewStore(5, log)

	themeCfg := config.ThemeConfig{
		PriceWeight: 0.7, NewsWeight: 0.3,
		PriceSaturation: 10.0, NewsHalfCount: 20,
		Tier1Size: 3, Tier2Size: 7,
	}
	passCfg := config.PassConfig{EnrichWorkers: 2, HistoryLimit: 5}

	runner := NewRunner(
		rec,
		price,
		master.NewFromEntries(map[string]contracts.MasterEntry{
			"005930": {KrName: "삼성전자", EnName: "Samsung Electronics", Sector: "반도체", Market: "KOSPI"},
		}, log),
		reconcile.New(log),
		themes.New(themeCfg, log),
		store,
		passCfg,
		log,
		opts,
	)
	return runner, store
}

func TestRunner_Run_DropsInvalidEntriesAndContinues(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Engine: "engine-v2",
		Entries: []contracts.RecommendationEntry{
			{Ticker: "005930", Score: intPtr(92)},
			{Ticker: "000660", Score: intPtr(85)},
			{Ticker: "035720", Score: nil}, // 점수 누락 → drop
			{Ticker: "005380", Score: intPtr(70)},
			{Ticker: "005930", Score: intPtr(50)}, // 중복 티커 → drop
		},
	}}
	price := &fakePriceSource{prices: map[string]*contracts.PriceSnapshot{
		"005930": {Price: 71500, ChangePercent: 1.2},
		"000660": {Price: 178000, ChangePercent: 2.5},
		"035720": {Price: 42000, ChangePercent: -0.5},
	}}

	runner, store := testRunner(t, rec, price, Options{})

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if snap.Summary.TotalInput != 5 {
		t.Errorf("TotalInput = %d, want 5", snap.Summary.TotalInput)
	}
	if snap.Summary.ValidCount != 3 {
		t.Errorf("ValidCount = %d, want 3", snap.Summary.ValidCount)
	}
	if snap.Summary.DroppedCount != 2 {
		t.Errorf("DroppedCount = %d, want 2", snap.Summary.DroppedCount)
	}
	// 005380은 시세 없음 → miss 1건, zero-value로 레코드는 유지
	if snap.Summary.EnrichmentMisses != 1 {
		t.Errorf("EnrichmentMisses = %d, want 1", snap.Summary.EnrichmentMisses)
	}

	record, err := store.GetRecommendation("005380")
	if err != nil {
		t.Fatalf("degraded record should still be served, got error %v", err)
	}
	if record.Price != 0 {
		t.Errorf("degraded record price = %v, want 0", record.Price)
	}

	// 점수 내림차순 서빙
	records, _ := store.ListRecommendations()
	if records[0].Ticker != "005930" || records[0].Score != 92 {
		t.Errorf("top record = %s(%d), want 005930(92)", records[0].Ticker, records[0].Score)
	}
}

func TestRunner_Run_BatchFailureKeepsLastGood(t *testing.T) {
	goodRec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Score: intPtr(92)}},
	}}
	price := &fakePriceSource{}

	runner, store := testRunner(t, goodRec, price, Options{})
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	first, ok := store.Current()
	if !ok {
		t.Fatal("no snapshot after successful pass")
	}

	// 배치 조회 실패 → 패스 실패, 발행 없음
	goodRec.batch = nil
	goodRec.err = errors.New("engine unreachable")

	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail when the batch fetch fails")
	}

	current, _ := store.Current()
	if current != first {
		t.Error("failed pass must not replace the last good snapshot")
	}
}

func TestRunner_Run_EmptyPassStillPublishes(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{
			{Ticker: "005930", Score: nil}, // 전부 invalid
		},
	}}

	runner, store := testRunner(t, rec, &fakePriceSource{}, Options{})

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !snap.Summary.Empty {
		t.Error("summary should flag the pass as empty")
	}

	// 빈-그러나-유효 스냅샷도 서빙된다
	records, err := store.ListRecommendations()
	if err != nil {
		t.Fatalf("ListRecommendations() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestRunner_Run_ThemeFailureDegrades(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Score: intPtr(80)}},
	}}
	themeSrc := &fakeThemeSource{err: errors.New("scrape blocked")}

	runner, _ := testRunner(t, rec, &fakePriceSource{}, Options{ThemeSource: themeSrc})

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("theme failure must not fail the pass, got %v", err)
	}
	if snap.Summary.ThemeCount != 0 {
		t.Errorf("ThemeCount = %d, want 0", snap.Summary.ThemeCount)
	}
	if snap.Summary.ValidCount != 1 {
		t.Errorf("ValidCount = %d, want 1", snap.Summary.ValidCount)
	}
}

func TestRunner_Run_ThemesRankedAndEnriched(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Name: "삼성전자", Score: intPtr(90)}},
	}}
	price := &fakePriceSource{prices: map[string]*contracts.PriceSnapshot{
		"005930": {Price: 71500, ChangePercent: 2.0},
		"000660": {Price: 178000, ChangePercent: 6.0},
	}}
	themeSrc := &fakeThemeSource{inputs: []contracts.ThemeInput{
		{ThemeCode: "theme-2", Name: "저변동", MemberTickers: []string{"005930"}, NewsCount: 1},
		{ThemeCode: "theme-1", Name: "반도체", MemberTickers: []string{"005930", "000660"}, NewsCount: 40},
	}}

	runner, store := testRunner(t, rec, price, Options{ThemeSource: themeSrc})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	ranked, err := store.ListThemes()
	if err != nil {
		t.Fatalf("ListThemes() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d themes, want 2", len(ranked))
	}
	if ranked[0].Code != "theme-1" || ranked[0].Rank != 1 {
		t.Errorf("top theme = %s rank %d, want theme-1 rank 1", ranked[0].Code, ranked[0].Rank)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("ranking is not score-descending: %v then %v", ranked[0].Score, ranked[1].Score)
	}

	// 테마 구성 종목도 보강 대상 — 추천에 없는 000660도 시세가 붙는다
	var found bool
	for _, link := range ranked[0].Links {
		if link.Ticker == "000660" {
			found = true
			if link.Price != 178000 {
				t.Errorf("member price = %v, want 178000", link.Price)
			}
		}
	}
	if !found {
		t.Error("theme member 000660 missing from links")
	}
}

func TestRunner_Run_NewsTaggedAndCountedIntoThemes(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Score: intPtr(90)}},
	}}
	themeSrc := &fakeThemeSource{inputs: []contracts.ThemeInput{
		// 수집기는 뉴스 카운트를 모른다 — 태깅된 기사 집계가 채워야 한다
		{ThemeCode: "theme-1", Name: "반도체", MemberTickers: []string{"005930"}},
	}}
	newsSrc := &fakeNewsSource{items: []contracts.NewsItem{
		{Link: "a", Title: "반도체 업황 바닥론 확산"},
		{Link: "b", Title: "삼성전자 2분기 실적 발표"},
		{Link: "c", Title: "오늘의 환율 동향"},
	}}

	runner, store := testRunner(t, rec, &fakePriceSource{}, Options{
		ThemeSource: themeSrc,
		NewsSource:  newsSrc,
	})

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tagged := make(map[string]contracts.NewsItem)
	for _, item := range snap.News {
		tagged[item.Link] = item
	}
	if tagged["a"].ThemeCode != "theme-1" {
		t.Errorf("item a theme = %q, want theme-1", tagged["a"].ThemeCode)
	}
	// 005930의 한글명은 마스터에서 온다
	if tagged["b"].Ticker != "005930" {
		t.Errorf("item b ticker = %q, want 005930", tagged["b"].Ticker)
	}

	ranked, err := store.ListThemes()
	if err != nil {
		t.Fatalf("ListThemes() error = %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d themes, want 1", len(ranked))
	}
	if ranked[0].NewsCount != 1 {
		t.Errorf("theme NewsCount = %d, want 1 from tagged news", ranked[0].NewsCount)
	}
	if ranked[0].Score <= 0 {
		t.Errorf("theme score = %v, want > 0 from news volume", ranked[0].Score)
	}
}

func TestRunner_Run_PersistsSnapshotWithNews(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Score: intPtr(80)}},
	}}
	newsSrc := &fakeNewsSource{items: []contracts.NewsItem{
		{Link: "a", Title: "삼성전자 신고가"},
	}}
	persister := &fakePersister{}

	runner, _ := testRunner(t, rec, &fakePriceSource{}, Options{
		NewsSource: newsSrc,
		Persister:  persister,
	})

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if persister.saved == nil {
		t.Fatal("persister did not receive the snapshot")
	}
	if persister.saved != snap {
		t.Error("persisted snapshot differs from the published one")
	}
	if len(persister.saved.News) != 1 || persister.saved.News[0].Ticker != "005930" {
		t.Errorf("persisted news = %+v, want one item tagged 005930", persister.saved.News)
	}
}

func TestRunner_Run_PersistFailureDoesNotFailPass(t *testing.T) {
	rec := &fakeRecSource{batch: &contracts.RecommendationBatch{
		Entries: []contracts.RecommendationEntry{{Ticker: "005930", Score: intPtr(80)}},
	}}
	persister := &fakePersister{err: errors.New("db down")}

	runner, store := testRunner(t, rec, &fakePriceSource{}, Options{Persister: persister})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("persist failure must not fail the pass, got %v", err)
	}
	if _, ok := store.Current(); !ok {
		t.Error("snapshot should be published even when persistence fails")
	}
}
