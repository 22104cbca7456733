package snapshot

import (
	"sort"
	"sync"
	"time"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/logger"
)

// Store serves the latest completed snapshot and keeps a bounded history.
// ⭐ SSOT: 스냅샷 발행/조회는 이 구조체에서만
//
// 발행은 불변 스냅샷 포인터 교체라 독자는 이전 스냅샷 전체 아니면 새 스냅샷
// 전체만 본다 — 반쯤 병합된 상태는 관측 불가. 실패한 패스는 발행하지 않으므로
// 마지막 정상 스냅샷이 그대로 남는다 (last good snapshot).
type Store struct {
	mu           sync.RWMutex
	current      *contracts.Snapshot
	history      []*contracts.Snapshot
	historyLimit int
	subscribers  map[chan *contracts.Snapshot]struct{}
	logger       *logger.Logger
}

// NewStore creates a snapshot store keeping at most historyLimit past snapshots
func NewStore(historyLimit int, log *logger.Logger) *Store {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &Store{
		historyLimit: historyLimit,
		subscribers:  make(map[chan *contracts.Snapshot]struct{}),
		logger:       log.WithField("module", "snapshot"),
	}
}

// Publish atomically replaces the current snapshot.
// 정렬 계약(점수 내림차순, 티커 오름차순 / 랭크순)은 발행 시점에 강제한다.
func (s *Store) Publish(snap *contracts.Snapshot) {
	sort.Slice(snap.Stocks, func(i, j int) bool {
		if snap.Stocks[i].Score != snap.Stocks[j].Score {
			return snap.Stocks[i].Score > snap.Stocks[j].Score
		}
		return snap.Stocks[i].Ticker < snap.Stocks[j].Ticker
	})
	sort.Slice(snap.Themes, func(i, j int) bool {
		return snap.Themes[i].Rank < snap.Themes[j].Rank
	})

	s.mu.Lock()
	if s.current != nil {
		s.history = append(s.history, s.current)
		if len(s.history) > s.historyLimit {
			s.history = s.history[len(s.history)-s.historyLimit:]
		}
	}
	s.current = snap

	// 느린 구독자는 건너뛴다 — 최신 상태는 Current()로 언제든 복구 가능
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"generated_at": snap.GeneratedAt,
		"stocks":       len(snap.Stocks),
		"themes":       len(snap.Themes),
		"empty":        snap.Summary.Empty,
	}).Info("Published snapshot")
}

// Current returns the latest completed snapshot, or false before the first pass
func (s *Store) Current() (*contracts.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// ListRecommendations returns all stock records ordered by score descending,
// ticker ascending as tiebreak.
func (s *Store) ListRecommendations() ([]contracts.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, contracts.ErrNotFound
	}

	out := make([]contracts.StockRecord, len(s.current.Stocks))
	copy(out, s.current.Stocks)
	return out, nil
}

// GetRecommendation returns the record for one ticker from the latest pass
func (s *Store) GetRecommendation(ticker string) (*contracts.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, contracts.ErrNotFound
	}

	record, ok := s.current.Get(ticker)
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return record, nil
}

// ListThemes returns themes ordered by rank
func (s *Store) ListThemes() ([]contracts.ThemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, contracts.ErrNotFound
	}

	out := make([]contracts.ThemeRecord, len(s.current.Themes))
	copy(out, s.current.Themes)
	return out, nil
}

// Age returns the staleness of the current snapshot.
// 스냅샷이 없으면 false — 신선도 판단은 소비자 몫.
func (s *Store) Age(now time.Time) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return 0, false
	}
	return s.current.Age(now), true
}

// Subscribe registers a channel receiving each newly published snapshot.
// 버퍼 1 — 수신이 밀리면 중간 발행은 건너뛴다.
func (s *Store) Subscribe() chan *contracts.Snapshot {
	ch := make(chan *contracts.Snapshot, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (s *Store) Unsubscribe(ch chan *contracts.Snapshot) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	s.mu.Unlock()
}

// History returns up to n most recent superseded snapshots, newest first
func (s *Store) History(n int) []*contracts.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}

	out := make([]*contracts.Snapshot, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		out = append(out, s.history[i])
	}
	return out
}
