package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration from environment variables.
type Config struct {
	APIURL      string
	DBPath      string
	Debug       bool
	HTTPTimeout time.Duration
	Retries     int           // extra attempts on transport or 5xx errors
	CacheTTL    time.Duration // station search cache lifetime

	SearchDays int // departure days offered by the search
	PageSize   int // visible rows of pick lists
	TripsLimit int // booked trips listed by the trips command
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		APIURL:      envStr("RAILBOOK_API_URL", "https://www.trainline.eu/api/v5"),
		DBPath:      envStr("RAILBOOK_DB_PATH", defaultDBPath()),
		Debug:       envBool("RAILBOOK_DEBUG", false),
		HTTPTimeout: envDuration("RAILBOOK_HTTP_TIMEOUT", 10*time.Second),
		Retries:     envInt("RAILBOOK_RETRIES", 2),
		CacheTTL:    envDuration("RAILBOOK_CACHE_TTL", 5*time.Minute),
		SearchDays:  envInt("RAILBOOK_SEARCH_DAYS", 90),
		PageSize:    envInt("RAILBOOK_PAGE_SIZE", 5),
		TripsLimit:  envInt("RAILBOOK_TRIPS_LIMIT", 7),
	}
}

func defaultDBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "railbook", "railbook.db")
	}
	return "./railbook.db"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
