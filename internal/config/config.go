package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Countries to load and compare.
	Countries []string

	// DataDir holds the per-country CSV files (benin.csv, ...).
	DataDir string

	// RemoteBaseURL, when set, switches loading from local files to CSVs
	// fetched over HTTP from this base URL.
	RemoteBaseURL string

	// ReloadInterval controls how often sources are reloaded.
	ReloadInterval time.Duration

	// HTTPTimeout applies to outbound remote-source requests.
	HTTPTimeout time.Duration

	// Redis summary cache; disabled when RedisAddr is empty.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SummaryCacheTTL time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Countries = splitList(getenvDefault("SOLAR_COUNTRIES", "Benin,Sierra Leone,Togo"))
	if len(cfg.Countries) == 0 {
		return nil, fmt.Errorf("SOLAR_COUNTRIES must name at least one country")
	}

	cfg.DataDir = getenvDefault("SOLAR_DATA_DIR", "data")
	cfg.RemoteBaseURL = os.Getenv("SOLAR_REMOTE_BASE_URL")

	// Reload interval: default 15 minutes.
	intervalStr := getenvDefault("RELOAD_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}
	cfg.ReloadInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	ttlStr := getenvDefault("SUMMARY_CACHE_TTL", "30m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_CACHE_TTL: %w", err)
	}
	cfg.SummaryCacheTTL = ttl

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
