package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/news"
	"github.com/jslee/stockpick/internal/reconcile"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/internal/themes"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/logger"
)

// Runner executes one reconciliation pass end to end.
// ⭐ SSOT: 패스 오케스트레이션은 여기서만
//
// 패스는 한 번에 하나만 돈다. 조회(I/O)는 병합 전에 병렬로 끝내고,
// 병합 자체는 순수 변환이라 락이 필요 없다. 완성된 스냅샷만 발행한다.
type Runner struct {
	recSource   RecommendationSource
	priceSource PriceProvider
	master      MasterProvider
	themeSource ThemeSource
	newsSource  NewsSource
	persister   Persister

	reconciler *reconcile.Reconciler
	aggregator *themes.Aggregator
	store      *snapshot.Store

	cfg    config.PassConfig
	logger *logger.Logger

	mu sync.Mutex // 동시 패스 금지
}

// Options carries the optional collaborators of a Runner
type Options struct {
	ThemeSource ThemeSource
	NewsSource  NewsSource
	Persister   Persister
}

// NewRunner creates a pass runner
func NewRunner(
	recSource RecommendationSource,
	priceSource PriceProvider,
	masterProvider MasterProvider,
	reconciler *reconcile.Reconciler,
	aggregator *themes.Aggregator,
	store *snapshot.Store,
	cfg config.PassConfig,
	log *logger.Logger,
	opts Options,
) *Runner {
	return &Runner{
		recSource:   recSource,
		priceSource: priceSource,
		master:      masterProvider,
		themeSource: opts.ThemeSource,
		newsSource:  opts.NewsSource,
		persister:   opts.Persister,
		reconciler:  reconciler,
		aggregator:  aggregator,
		store:       store,
		cfg:         cfg,
		logger:      log.WithField("module", "pipeline"),
	}
}

// Run executes one pass and publishes the resulting snapshot.
// 추천 배치 조회 실패만 패스 실패다 — 그 경우 발행하지 않고 이전 스냅샷이 남는다.
// 엔트리 단위 실패와 보강 실패는 요약에 집계될 뿐 패스를 중단시키지 않는다.
func (r *Runner) Run(ctx context.Context) (*contracts.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	r.logger.Info("Reconciliation pass started")

	batch, err := r.recSource.Recommendations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch recommendations: %w", err)
	}

	themeInputs := r.fetchThemes(ctx)
	newsItems := r.fetchNews(ctx)

	// 추천 + 테마 구성 종목 전부를 한 번에 병렬 보강
	tickers := collectTickers(batch.Entries, themeInputs)
	prices, misses := r.resolvePrices(ctx, tickers)

	summary := contracts.PassSummary{
		StartedAt:        started,
		TotalInput:       len(batch.Entries),
		EnrichmentMisses: misses,
	}

	records := make([]contracts.StockRecord, 0, len(batch.Entries))
	names := make(map[string]string)
	seen := make(map[string]bool)

	for i := range batch.Entries {
		entry := &batch.Entries[i]

		if seen[entry.Ticker] && entry.Ticker != "" {
			summary.Dropped = append(summary.Dropped, contracts.DroppedEntry{
				Ticker: entry.Ticker,
				Reason: "duplicate ticker",
			})
			continue
		}

		var masterEntry *contracts.MasterEntry
		if r.master != nil {
			masterEntry, _ = r.master.Lookup(entry.Ticker)
		}

		record, err := r.reconciler.Reconcile(entry, prices[entry.Ticker], masterEntry)
		if err != nil {
			r.logger.WithError(err).WithField("ticker", entry.Ticker).Warn("Dropped recommendation entry")
			summary.Dropped = append(summary.Dropped, contracts.DroppedEntry{
				Ticker: entry.Ticker,
				Reason: err.Error(),
			})
			continue
		}

		seen[entry.Ticker] = true
		names[record.Ticker] = record.KoreanName
		records = append(records, *record)
	}

	// 기사 제목/요약에 테마명·종목명이 등장하면 연결한다
	newsItems = news.Associate(newsItems, themeInputs, names)

	// 테마 뉴스 볼륨: 소스가 준 값과 수집 뉴스 집계 중 큰 쪽
	newsByTheme := news.CountByTheme(newsItems)
	for i := range themeInputs {
		if c := newsByTheme[themeInputs[i].ThemeCode]; c > themeInputs[i].NewsCount {
			themeInputs[i].NewsCount = c
		}
	}

	themeRecords := r.aggregator.Aggregate(themeInputs, prices, names)

	summary.ValidCount = len(records)
	summary.DroppedCount = len(summary.Dropped)
	summary.ThemeCount = len(themeRecords)
	summary.NewsCount = len(newsItems)
	summary.Empty = len(records) == 0
	summary.FinishedAt = time.Now()
	summary.Duration = summary.FinishedAt.Sub(started)

	snap := &contracts.Snapshot{
		GeneratedAt: summary.FinishedAt,
		Engine:      batch.Engine,
		Stocks:      records,
		Themes:      themeRecords,
		News:        newsItems,
		Summary:     summary,
	}

	// 유효 엔트리가 없어도 빈 스냅샷을 발행한다 — 신선도는 타임스탬프로 드러남
	if summary.Empty {
		r.logger.WithField("reason", contracts.ErrEmptyPass.Error()).Warn("Pass produced no valid entries")
	}

	r.store.Publish(snap)

	if r.persister != nil {
		if err := r.persister.SavePass(ctx, snap); err != nil {
			r.logger.WithError(err).Warn("Failed to persist pass (snapshot already published)")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"valid":    summary.ValidCount,
		"dropped":  summary.DroppedCount,
		"misses":   summary.EnrichmentMisses,
		"themes":   summary.ThemeCount,
		"duration": summary.Duration,
	}).Info("Reconciliation pass completed")

	return snap, nil
}

// fetchThemes loads the theme batch, degrading to none on failure
func (r *Runner) fetchThemes(ctx context.Context) []contracts.ThemeInput {
	if r.themeSource == nil {
		return nil
	}

	inputs, err := r.themeSource.Themes(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Theme fetch failed, continuing without themes")
		return nil
	}
	return inputs
}

// fetchNews loads and deduplicates news, degrading to none on failure
func (r *Runner) fetchNews(ctx context.Context) []contracts.NewsItem {
	if r.newsSource == nil {
		return nil
	}

	items, err := r.newsSource.News(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("News fetch failed, continuing without news")
		return nil
	}
	return news.Merge(items)
}

// resolvePrices fetches price snapshots for all tickers with a bounded worker pool.
// 실패한 티커는 맵에서 빠질 뿐이다 — Reconciler가 zero-value로 degrade한다.
func (r *Runner) resolvePrices(ctx context.Context, tickers []string) (map[string]*contracts.PriceSnapshot, int) {
	prices := make(map[string]*contracts.PriceSnapshot, len(tickers))
	if r.priceSource == nil || len(tickers) == 0 {
		return prices, len(tickers)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	misses := 0

	tickerCh := make(chan string, len(tickers))
	for _, t := range tickers {
		tickerCh <- t
	}
	close(tickerCh)

	workers := r.cfg.EnrichWorkers
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range tickerCh {
				fetchCtx := ctx
				var cancel context.CancelFunc
				if r.cfg.EnrichTimeout > 0 {
					fetchCtx, cancel = context.WithTimeout(ctx, r.cfg.EnrichTimeout)
				}

				price, err := r.priceSource.Price(fetchCtx, ticker)
				if cancel != nil {
					cancel()
				}

				mu.Lock()
				if err != nil || price == nil {
					misses++
					if err != nil {
						r.logger.WithError(fmt.Errorf("%w: %v", contracts.ErrEnrichmentUnavailable, err)).
							WithField("ticker", ticker).Debug("Price lookup failed")
					}
				} else {
					prices[ticker] = price
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return prices, misses
}

// collectTickers gathers the unique tickers needing enrichment, in input order
func collectTickers(entries []contracts.RecommendationEntry, themeInputs []contracts.ThemeInput) []string {
	seen := make(map[string]bool)
	tickers := make([]string, 0, len(entries))

	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	for _, e := range entries {
		add(e.Ticker)
	}
	for _, in := range themeInputs {
		for _, t := range in.MemberTickers {
			add(t)
		}
	}

	return tickers
}
