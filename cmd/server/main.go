package main

import (
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"bakery-order-service/internal/adapters/cache"
	"bakery-order-service/internal/adapters/geocode"
	"bakery-order-service/internal/adapters/repositories"
	"bakery-order-service/internal/adapters/zones"
	"bakery-order-service/internal/api"
	"bakery-order-service/internal/config"
	"bakery-order-service/internal/platform/db"
	"bakery-order-service/internal/ports"
	"bakery-order-service/internal/services"
	"bakery-order-service/pkg/logger"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, ORS, the zone store) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	logger.New(logger.Options{
		Service: "bakery-order-service",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	if strings.TrimSpace(cfg.GeocodeAPIKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}
	if strings.TrimSpace(cfg.ZoneDatasetURL) == "" {
		log.Fatal("ZONE_DATASET_URL is required")
	}

	sqliteDB, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed the catalog on startup for local runs.
	if err := repositories.InitSchema(sqliteDB); err != nil {
		log.Fatal(err)
	}
	if err := repositories.SeedFromJSON(sqliteDB, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	// The geocode cache backend is swappable: embedded SQLite by
	// default, Postgres or Redis when instances share a cache.
	var geocodeCache ports.GeocodeCache
	switch cfg.CacheBackend {
	case "sqlite":
		geocodeCache = cache.NewSqliteGeocodeCache(sqliteDB)
	case "postgres":
		pgDB, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pgDB.Close()
		geocodeCache = cache.NewSQLGeocodeCache(pgDB)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		geocodeCache = cache.NewRedisGeocodeCache(client)
	default:
		log.Fatalf("unknown geocode cache backend %q", cfg.CacheBackend)
	}

	geocoder, err := geocode.NewORSGeocoder(cfg.GeocodeAPIKey, cfg.GeocodeCountry, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	zoneSource, err := zones.NewHTTPSource(cfg.ZoneDatasetURL)
	if err != nil {
		log.Fatal(err)
	}
	zoneStore := zones.NewStore(zoneSource)

	tiers, err := config.LoadTierTable(cfg.TierTablePath)
	if err != nil {
		log.Fatal(err)
	}
	pricing, err := services.NewPricingEngine(tiers)
	if err != nil {
		log.Fatal(err)
	}

	coverage := services.NewCoverageService(zoneStore, geocoder)
	registry := services.NewCartRegistry()
	composer := services.NewOrderComposer(pricing, cfg.MinimumOrderUnits)

	router := api.NewRouter(api.Deps{
		Products: repositories.NewSqliteProductRepository(sqliteDB),
		Zones:    zoneStore,
		Coverage: coverage,
		Pricing:  pricing,
		Registry: registry,
		Composer: composer,
	})

	// Write timeout leaves room for a cold-cache coverage check
	// (dataset fetch plus geocoding with retries).
	slog.Info("server listening", "addr", ":"+cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
