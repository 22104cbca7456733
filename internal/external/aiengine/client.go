package aiengine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/httputil"
	"github.com/jslee/stockpick/pkg/logger"
)

// Client reads recommendation batches produced by the external AI engine.
// ⭐ SSOT: 엔진 출력 읽기는 여기서만 — 엔진 자체(프롬프트/LLM 호출)는 외부 협력자
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	batchFile  string
	logger     *logger.Logger
}

// New creates a new engine output client.
// BaseURL이 있으면 HTTP로, 없으면 내보낸 배치 파일에서 읽는다.
func New(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.Engine.BaseURL, "/"),
		batchFile:  cfg.Engine.BatchFile,
		logger:     log.WithField("module", "aiengine"),
	}
}

// Recommendations fetches the latest recommendation batch
func (c *Client) Recommendations(ctx context.Context) (*contracts.RecommendationBatch, error) {
	var data []byte
	var err error

	if c.baseURL != "" {
		data, err = c.fetchHTTP(ctx)
	} else {
		data, err = os.ReadFile(c.batchFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load recommendation batch: %w", err)
	}

	batch, err := ParseBatch(data)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"engine":  batch.Engine,
		"entries": len(batch.Entries),
	}).Info("Loaded recommendation batch")

	return batch, nil
}

func (c *Client) fetchHTTP(ctx context.Context) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/recommendations/latest")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// engineExport is the nested shape the engine writes to disk
// (recommendations를 한국/미국으로 나눠 담는다)
type engineExport struct {
	Engine          string `json:"engine"`
	GeneratedAt     string `json:"generated_at"`
	Recommendations struct {
		Korea []contracts.RecommendationEntry `json:"korea"`
		USA   []contracts.RecommendationEntry `json:"usa"`
	} `json:"recommendations"`
}

// ParseBatch parses either the flat batch shape or the engine's nested export.
// 어느 쪽이든 엔트리 검증은 하지 않는다 — 그건 Reconciler의 일.
func ParseBatch(data []byte) (*contracts.RecommendationBatch, error) {
	// Flat shape first
	var flat contracts.RecommendationBatch
	if err := json.Unmarshal(data, &flat); err == nil && len(flat.Entries) > 0 {
		return &flat, nil
	}

	var export engineExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse recommendation batch: %w", err)
	}

	batch := &contracts.RecommendationBatch{
		Engine:      export.Engine,
		GeneratedAt: export.GeneratedAt,
	}
	batch.Entries = append(batch.Entries, export.Recommendations.Korea...)
	batch.Entries = append(batch.Entries, export.Recommendations.USA...)

	if batch.Engine == "" && len(batch.Entries) == 0 {
		return nil, fmt.Errorf("recommendation batch has no recognizable shape")
	}

	return batch, nil
}
