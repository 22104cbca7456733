package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External sources
	Naver  NaverConfig
	Engine EngineConfig

	// Reconciliation pass
	Pass PassConfig

	// Theme scoring
	Theme ThemeConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	BaseURL        string
	RequestsPerSec float64
	PriceCacheTTL  time.Duration
}

// EngineConfig holds the external AI recommendation engine configuration
// 엔진 자체는 외부 협력자 — 여기서는 배치 출력을 읽기만 함
type EngineConfig struct {
	BaseURL   string
	BatchFile string // 엔진이 내보낸 JSON 배치 파일 (BaseURL 미설정 시 사용)
	Timeout   time.Duration
}

// PassConfig holds reconciliation pass configuration
type PassConfig struct {
	EnrichWorkers int           // 가격/마스터 조회 동시 실행 개수
	HistoryLimit  int           // 보관할 과거 스냅샷 개수
	MasterFile    string        // 종목 마스터 JSON 경로
	Schedule      string        // cron 표현식 (scheduler 모드)
	EnrichTimeout time.Duration // 티커 하나당 조회 제한시간
}

// ThemeConfig holds theme scoring and tiering constants.
// 가중치/정규화 상수는 숨은 상수가 아니라 설정값
type ThemeConfig struct {
	PriceWeight     float64 // 가격 변동 비중 (기본 0.7)
	NewsWeight      float64 // 뉴스 볼륨 비중 (기본 0.3)
	PriceSaturation float64 // 평균 |등락률| 포화 기준 (% 단위, 기본 10)
	NewsHalfCount   int     // 뉴스 항이 50점이 되는 건수 (기본 20)
	Tier1Size       int     // 1차 관련주 개수 (기본 3)
	Tier2Size       int     // 2차 관련주 개수 (기본 7)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Naver: NaverConfig{
			BaseURL:        getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			RequestsPerSec: getEnvAsFloat("NAVER_REQUESTS_PER_SEC", 3.0),
			PriceCacheTTL:  getEnvAsDuration("NAVER_PRICE_CACHE_TTL", "60s"),
		},

		Engine: EngineConfig{
			BaseURL:   getEnv("ENGINE_BASE_URL", ""),
			BatchFile: getEnv("ENGINE_BATCH_FILE", "output/ai_recommendation.json"),
			Timeout:   getEnvAsDuration("ENGINE_TIMEOUT", "120s"),
		},

		Pass: PassConfig{
			EnrichWorkers: getEnvAsInt("PASS_ENRICH_WORKERS", 5),
			HistoryLimit:  getEnvAsInt("PASS_HISTORY_LIMIT", 20),
			MasterFile:    getEnv("STOCK_MASTER_FILE", "data/stock_master.json"),
			Schedule:      getEnv("PASS_SCHEDULE", "0 0 16 * * 1-5"),
			EnrichTimeout: getEnvAsDuration("PASS_ENRICH_TIMEOUT", "10s"),
		},

		Theme: ThemeConfig{
			PriceWeight:     getEnvAsFloat("THEME_PRICE_WEIGHT", 0.7),
			NewsWeight:      getEnvAsFloat("THEME_NEWS_WEIGHT", 0.3),
			PriceSaturation: getEnvAsFloat("THEME_PRICE_SATURATION", 10.0),
			NewsHalfCount:   getEnvAsInt("THEME_NEWS_HALF_COUNT", 20),
			Tier1Size:       getEnvAsInt("THEME_TIER1_SIZE", 3),
			Tier2Size:       getEnvAsInt("THEME_TIER2_SIZE", 7),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if sum := c.Theme.PriceWeight + c.Theme.NewsWeight; sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("THEME_PRICE_WEIGHT + THEME_NEWS_WEIGHT must sum to 1.0")
	}

	// 0이면 테마 점수 계산에서 0으로 나눈다
	if c.Theme.PriceSaturation <= 0 {
		return fmt.Errorf("THEME_PRICE_SATURATION must be positive")
	}

	if c.Theme.NewsHalfCount <= 0 {
		return fmt.Errorf("THEME_NEWS_HALF_COUNT must be positive")
	}

	if c.Theme.Tier1Size < 0 || c.Theme.Tier2Size < 0 {
		return fmt.Errorf("tier sizes must not be negative")
	}

	if c.Pass.EnrichWorkers < 1 {
		return fmt.Errorf("PASS_ENRICH_WORKERS must be at least 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
