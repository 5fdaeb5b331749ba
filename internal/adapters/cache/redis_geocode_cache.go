package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"bakery-order-service/internal/domain"
)

// RedisGeocodeCache stores address -> coordinate mappings in Redis as
// "lat,lng" strings. Entries never expire: a street address does not
// move for the process lifetime of interest.
type RedisGeocodeCache struct {
	Client *redis.Client
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client}
}

func geocodeKey(address string) string {
	return "geocode:" + address
}

// Get fetches the cached coordinate for an address.
func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	if c.Client == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: redis client is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinate{}, false, nil
	}

	raw, err := c.Client.Get(ctx, geocodeKey(address)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	coord, err := parseCoordValue(raw)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: key %q: %w", address, err)
	}

	return coord, true, nil
}

// Put stores or replaces the coordinate for an address.
func (c *RedisGeocodeCache) Put(ctx context.Context, address string, coord domain.Coordinate) error {
	if c.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	val := formatCoordValue(coord)
	if err := c.Client.Set(ctx, geocodeKey(address), val, 0).Err(); err != nil {
		return fmt.Errorf("insert geocode cache coord=%q: %w", address, err)
	}

	return nil
}

func formatCoordValue(coord domain.Coordinate) string {
	return strconv.FormatFloat(coord.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(coord.Lng, 'f', -1, 64)
}

func parseCoordValue(raw string) (domain.Coordinate, error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return domain.Coordinate{}, fmt.Errorf("malformed value %q", raw)
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lng: %w", err)
	}

	return domain.Coordinate{Lat: lat, Lng: lng}, nil
}
