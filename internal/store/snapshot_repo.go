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

// SnapshotRepository persists completed passes for audit.
// ⭐ SSOT: 패스 영속화는 여기서만
// 발행(메모리 스냅샷 교체)과는 독립 — 저장 실패가 서빙을 막지 않는다.
type SnapshotRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool, log *logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		pool:   pool,
		logger: log.WithField("module", "store"),
	}
}

// EnsureSchema creates the audit tables if they do not exist
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS recon`,
		`CREATE TABLE IF NOT EXISTS recon.passes (
			id           BIGSERIAL PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			engine       TEXT NOT NULL DEFAULT '',
			total_input  INT NOT NULL,
			valid_count  INT NOT NULL,
			dropped      INT NOT NULL,
			misses       INT NOT NULL,
			theme_count  INT NOT NULL,
			news_count   INT NOT NULL,
			empty        BOOLEAN NOT NULL,
			duration_ms  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recon.stock_records (
			pass_id        BIGINT NOT NULL REFERENCES recon.passes(id) ON DELETE CASCADE,
			ticker         TEXT NOT NULL,
			korean_name    TEXT NOT NULL,
			score          INT NOT NULL,
			analyst_rating DOUBLE PRECISION NOT NULL,
			action         TEXT NOT NULL,
			price          DOUBLE PRECISION NOT NULL,
			change_percent DOUBLE PRECISION NOT NULL,
			market_cap     DOUBLE PRECISION NOT NULL,
			sector         TEXT NOT NULL,
			country        TEXT NOT NULL,
			PRIMARY KEY (pass_id, ticker)
		)`,
		`CREATE TABLE IF NOT EXISTS recon.themes (
			pass_id     BIGINT NOT NULL REFERENCES recon.passes(id) ON DELETE CASCADE,
			theme_code  TEXT NOT NULL,
			name        TEXT NOT NULL,
			score       DOUBLE PRECISION NOT NULL,
			rank        INT NOT NULL,
			stock_count INT NOT NULL,
			news_count  INT NOT NULL,
			PRIMARY KEY (pass_id, theme_code)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SavePass persists one completed pass with its records and themes
func (r *SnapshotRepository) SavePass(ctx context.Context, snap *contracts.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var passID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO recon.passes
			(generated_at, engine, total_input, valid_count, dropped, misses, theme_count, news_count, empty, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		snap.GeneratedAt, snap.Engine,
		snap.Summary.TotalInput, snap.Summary.ValidCount, snap.Summary.DroppedCount,
		snap.Summary.EnrichmentMisses, snap.Summary.ThemeCount, snap.Summary.NewsCount,
		snap.Summary.Empty, snap.Summary.Duration.Milliseconds(),
	).Scan(&passID)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range snap.Stocks {
		batch.Queue(`
			INSERT INTO recon.stock_records
				(pass_id, ticker, korean_name, score, analyst_rating, action, price, change_percent, market_cap, sector, country)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			passID, s.Ticker, s.KoreanName, s.Score, s.AnalystRating, s.Action,
			s.Price, s.ChangePercent, s.MarketCap, s.Sector, s.Country,
		)
	}
	for _, t := range snap.Themes {
		batch.Queue(`
			INSERT INTO recon.themes
				(pass_id, theme_code, name, score, rank, stock_count, news_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			passID, t.Code, t.Name, t.Score, t.Rank, t.StockCount, t.NewsCount,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"pass_id": passID,
		"stocks":  len(snap.Stocks),
		"themes":  len(snap.Themes),
	}).Debug("Pass persisted")

	return nil
}

// PassSummaryRow is one persisted pass summary
type PassSummaryRow struct {
	ID          int64     `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Engine      string    `json:"engine"`
	TotalInput  int       `json:"total_input"`
	ValidCount  int       `json:"valid_count"`
	Dropped     int       `json:"dropped"`
	Misses      int       `json:"misses"`
	ThemeCount  int       `json:"theme_count"`
	NewsCount   int       `json:"news_count"`
	Empty       bool      `json:"empty"`
	DurationMS  int64     `json:"duration_ms"`
}

// LatestSummaries returns the most recent pass summaries, newest first
func (r *SnapshotRepository) LatestSummaries(ctx context.Context, limit int) ([]PassSummaryRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, generated_at, engine, total_input, valid_count, dropped, misses, theme_count, news_count, empty, duration_ms
		FROM recon.passes
		ORDER BY generated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PassSummaryRow
	for rows.Next() {
		var row PassSummaryRow
		if err := rows.Scan(
			&row.ID, &row.GeneratedAt, &row.Engine, &row.TotalInput, &row.ValidCount,
			&row.Dropped, &row.Misses, &row.ThemeCount, &row.NewsCount, &row.Empty, &row.DurationMS,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes persisted passes older than the cutoff
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recon.passes WHERE generated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
