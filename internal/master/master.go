package master

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/logger"
)

// Master is the static ticker → stock master lookup.
// ⭐ SSOT: 종목 마스터 조회는 여기서만
type Master struct {
	entries map[string]contracts.MasterEntry
	logger  *logger.Logger
}

// LoadFile loads the stock master from a JSON file keyed by ticker.
// 파일이 없으면 빈 마스터로 동작한다 — 조회 실패는 fallback으로 degrade되므로
// 마스터 부재는 치명적이지 않다.
func LoadFile(path string, log *logger.Logger) (*Master, error) {
	m := &Master{
		entries: make(map[string]contracts.MasterEntry),
		logger:  log.WithField("module", "master"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.WithField("path", path).Warn("Stock master file not found, using empty master")
			return m, nil
		}
		return nil, fmt.Errorf("read stock master: %w", err)
	}

	if err := json.Unmarshal(data, &m.entries); err != nil {
		return nil, fmt.Errorf("parse stock master: %w", err)
	}

	m.logger.WithField("count", len(m.entries)).Info("Loaded stock master")
	return m, nil
}

// NewFromEntries builds a master from an in-memory map. 테스트용
func NewFromEntries(entries map[string]contracts.MasterEntry, log *logger.Logger) *Master {
	return &Master{entries: entries, logger: log}
}

// Lookup returns the master entry for a ticker
func (m *Master) Lookup(ticker string) (*contracts.MasterEntry, bool) {
	entry, ok := m.entries[ticker]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Count returns the number of master entries
func (m *Master) Count() int {
	return len(m.entries)
}
