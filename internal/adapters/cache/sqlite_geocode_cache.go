package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bakery-order-service/internal/domain"
)

// SQLite backed cache mapping address strings to geographic
// coordinates, the default for single-instance deployments.
// Address keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Get fetches the cached coordinate for an address.
func (s *SqliteGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinate{}, false, nil
	}

	q := `
	SELECT lon, lat
    FROM geocode_cache
    WHERE address = ?;
	`

	var lon, lat float64
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return domain.Coordinate{Lat: lat, Lng: lon}, true, nil
}

// Put stores or replaces the coordinate for an address.
func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, coord domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, lon, lat)
    VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, address, coord.Lng, coord.Lat); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}

	return nil
}
