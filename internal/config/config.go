package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"bakery-order-service/internal/domain"
)

// Config carries everything the composition root needs. Business
// constants (minimum order size, tier schedule) are injected here
// rather than hard-coded next to the algorithms.
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	DBPath   string
	SeedPath string

	// Optional shared backends for the geocode cache.
	CacheBackend string // "sqlite" (default), "postgres" or "redis"
	DatabaseURL  string
	RedisAddr    string

	ZoneDatasetURL string

	GeocodeAPIKey  string
	GeocodeCountry string

	MinimumOrderUnits int
	TierTablePath     string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),

		DBPath:   getEnv("DB_PATH", "data/app.db"),
		SeedPath: getEnv("SEED_PATH", "data/seeds/products.json"),

		CacheBackend: getEnv("GEOCODE_CACHE_BACKEND", "sqlite"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),

		ZoneDatasetURL: os.Getenv("ZONE_DATASET_URL"),

		GeocodeAPIKey:  os.Getenv("ORS_API_KEY"),
		GeocodeCountry: getEnv("GEOCODE_COUNTRY", "RS"),

		MinimumOrderUnits: getEnvInt("MINIMUM_ORDER_UNITS", 6),
		TierTablePath:     os.Getenv("TIER_TABLE_PATH"),
	}
}

// LoadTierTable reads the tier schedule from the configured JSON file,
// falling back to the compiled-in defaults when no path is set. The
// table is validated for contiguity either way.
func LoadTierTable(path string) (domain.TierTable, error) {
	table := domain.DefaultTierTable()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load tier table: read %q: %w", path, err)
		}

		table = domain.TierTable{}
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("load tier table: parse %q: %w", path, err)
		}
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("load tier table: %w", err)
	}

	return table, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
