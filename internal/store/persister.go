package store

import (
	"context"

	"github.com/jslee/stockpick/internal/contracts"
)

// PassPersister persists a published snapshot: the pass itself, then its news.
// 뉴스 저장 실패는 패스 저장을 되돌리지 않는다 — 패스가 본체, 뉴스는 부속.
type PassPersister struct {
	passes *SnapshotRepository
	news   *NewsRepository
}

// NewPassPersister creates a persister covering both repositories
func NewPassPersister(passes *SnapshotRepository, news *NewsRepository) *PassPersister {
	return &PassPersister{passes: passes, news: news}
}

// SavePass writes the pass and upserts its news items
func (p *PassPersister) SavePass(ctx context.Context, snap *contracts.Snapshot) error {
	if err := p.passes.SavePass(ctx, snap); err != nil {
		return err
	}
	if p.news != nil {
		if err := p.news.SaveAll(ctx, snap.News); err != nil {
			return err
		}
	}
	return nil
}
