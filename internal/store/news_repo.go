package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/logger"
)

// NewsRepository persists collected news headlines.
// ⭐ SSOT: 뉴스 저장은 여기서만 — link가 유일키
type NewsRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(pool *pgxpool.Pool, log *logger.Logger) *NewsRepository {
	return &NewsRepository{
		pool:   pool,
		logger: log.WithField("module", "store"),
	}
}

// EnsureSchema creates the news table if it does not exist
func (r *NewsRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS recon.news (
			link         TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			source       TEXT NOT NULL DEFAULT '',
			theme_code   TEXT NOT NULL DEFAULT '',
			ticker       TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ,
			collected_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure news schema: %w", err)
	}
	return nil
}

// SaveAll upserts a batch of news items keyed by link
func (r *NewsRepository) SaveAll(ctx context.Context, items []contracts.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO recon.news (link, title, description, source, theme_code, ticker, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (link) DO UPDATE SET
				title        = EXCLUDED.title,
				description  = EXCLUDED.description,
				source       = EXCLUDED.source,
				theme_code   = EXCLUDED.theme_code,
				ticker       = EXCLUDED.ticker,
				published_at = EXCLUDED.published_at
		`,
			item.Link, item.Title, item.Description, item.Source,
			item.ThemeCode, item.Ticker, item.PublishedAt,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save news batch: %w", err)
	}

	r.logger.WithField("count", len(items)).Debug("News batch saved")
	return nil
}

// Recent returns the most recently published news, newest first
func (r *NewsRepository) Recent(ctx context.Context, limit int) ([]contracts.NewsItem, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT link, title, description, source, theme_code, ticker, published_at
		FROM recon.news
		ORDER BY published_at DESC NULLS LAST, link ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []contracts.NewsItem
	for rows.Next() {
		var item contracts.NewsItem
		if err := rows.Scan(
			&item.Link, &item.Title, &item.Description, &item.Source,
			&item.ThemeCode, &item.Ticker, &item.PublishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteOlderThan removes news published before the cutoff
func (r *NewsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recon.news WHERE published_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
