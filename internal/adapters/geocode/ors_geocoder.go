package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/platform/metrics"
	"bakery-order-service/internal/platform/obs"
	"bakery-order-service/internal/ports"
)

// ORSGeocoder resolves free-text addresses using the OpenRouteService
// geocoding endpoint, restricted to the configured service country.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching (optional)
//   - Outbound rate limiting
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	limiter *rate.Limiter
	cache   ports.GeocodeCache
}

func NewORSGeocoder(apiKey, country string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if country == "" {
		return nil, errors.New("geocode country is empty")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: country,
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *ORSGeocoder) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves an address to the first candidate's coordinate.
// Returns ports.ErrNoResult when the provider has no candidates.
func (g *ORSGeocoder) Geocode(ctx context.Context, text string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.ors")(&err)

	norm := g.normalize(text)
	if norm == "" {
		return domain.Coordinate{}, fmt.Errorf("geocode: %w", ports.ErrNoResult)
	}

	// Check the persistent cache before issuing an external call.
	if g.cache != nil {
		coord, ok, err := g.cache.Get(ctx, norm)
		if err != nil {
			return domain.Coordinate{}, fmt.Errorf("geocode: cache get: %w", err)
		}
		metrics.RecordGeocodeCacheLookup(ok)
		if ok {
			return coord, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode: rate limiter: %w", err)
	}

	endpoint := g.baseURL + "/geocode/search"
	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("boundary.country", g.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrNoResult)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinate{}, fmt.Errorf("geocode: invalid coordinate format for %q", norm)
	}

	// GeoJSON order is [lng, lat].
	coord := domain.Coordinate{Lat: coords[1], Lng: coords[0]}

	if g.cache != nil {
		// Cache write failures do not fail the lookup.
		if err := g.cache.Put(ctx, norm, coord); err != nil {
			slog.Warn("geocode cache write failed", "err", err)
		}
	}

	return coord, nil
}
