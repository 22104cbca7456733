package naver

import (
	"strconv"
	"strings"
	"time"

	"github.com/jslee/stockpick/pkg/config"
	"github.com/jslee/stockpick/pkg/httputil"
	"github.com/jslee/stockpick/pkg/logger"
	"github.com/jslee/stockpick/pkg/redis"
)

// Client fetches price and theme data from Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 패키지에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
	logger     *logger.Logger
}

// New creates a new Naver Finance client.
// cache는 nil 허용 — 없으면 매번 실조회.
func New(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient.WithRateLimit(cfg.Naver.RequestsPerSec),
		cache:      cache,
		cacheTTL:   cfg.Naver.PriceCacheTTL,
		baseURL:    strings.TrimRight(cfg.Naver.BaseURL, "/"),
		logger:     log.WithField("module", "naver"),
	}
}

// defaultHeaders returns headers Naver Finance expects from a browser
func (c *Client) defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Referer":    "https://finance.naver.com/",
	}
}

// parseNumber parses a Naver-formatted number ("1,234,567" / "+3.5%" / "-120")
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")

	if s == "" || s == "-" || s == "N/A" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
