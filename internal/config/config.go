package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	ScoringPolicy     string
	VocabularyFile    string
	ParallelThreshold int

	CatalogFile      string
	CatalogURL       string
	CatalogHeaderRow int
	CatalogWatch     bool

	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	ExtractTimeout time.Duration
	ExtractRPS     float64

	RedisAddr       string
	ExtractCacheTTL time.Duration

	SessionTTL time.Duration
}

func Load() Config {
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         getint("PORT", 8083),
		AllowOrigins: strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/quote-service.log"),
		MaxUploadMB:  getint("MAX_UPLOAD_MB", 64),

		ScoringPolicy:     getenv("SCORING_POLICY", "strict"),
		VocabularyFile:    getenv("VOCABULARY_FILE", ""),
		ParallelThreshold: getint("PARALLEL_THRESHOLD", 2000),

		CatalogFile:      getenv("CATALOG_FILE", ""),
		CatalogURL:       getenv("CATALOG_URL", ""),
		CatalogHeaderRow: getint("CATALOG_HEADER_ROW", 1),
		CatalogWatch:     getbool("CATALOG_WATCH", true),

		OpenAIKey:      getenv("OPENAI_API_KEY", ""),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", ""),
		ExtractTimeout: getdur("EXTRACT_TIMEOUT", 20*time.Second),
		ExtractRPS:     getfloat("EXTRACT_RPS", 3),

		RedisAddr:       getenv("REDIS_ADDR", ""),
		ExtractCacheTTL: getdur("EXTRACT_CACHE_TTL", 24*time.Hour),

		SessionTTL: getdur("SESSION_TTL", 2*time.Hour),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return n
}

func getbool(k string, def bool) bool {
	b, err := strconv.ParseBool(getenv(k, ""))
	if err != nil {
		return def
	}
	return b
}

func getfloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return f
}

func getdur(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(k, ""))
	if err != nil {
		return def
	}
	return d
}
