package zones

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/platform/obs"
)

// HTTPSource fetches the delivery-zone dataset from a static GeoJSON
// resource. Each zone is a Polygon or MultiPolygon feature carrying a
// flat shipping cost in its properties. The document is cacheable for
// the process lifetime; callers go through the Store rather than
// fetching directly.
type HTTPSource struct {
	session *http.Client
	url     string
}

func NewHTTPSource(url string) (*HTTPSource, error) {
	if url == "" {
		return nil, errors.New("zone dataset URL is empty")
	}

	return &HTTPSource{
		session: &http.Client{Timeout: 10 * time.Second},
		url:     url,
	}, nil
}

type featureCollection struct {
	Features []struct {
		Properties struct {
			Name          string    `json:"name"`
			Cost          *int      `json:"cost"`
			LabelPosition []float64 `json:"label_position"`
		} `json:"properties"`
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// FetchZones performs one GET of the dataset and parses it into zone
// records, preserving document order.
func (s *HTTPSource) FetchZones(ctx context.Context) (_ domain.ZoneDataset, err error) {
	defer obs.Time(ctx, "zones.fetch")(&err)

	resp, err := s.doWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	defer resp.Body.Close()

	var decoded featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fetch zones: decode dataset: %w", err)
	}

	dataset := make(domain.ZoneDataset, 0, len(decoded.Features))
	for i, f := range decoded.Features {
		if f.Properties.Cost == nil {
			return nil, fmt.Errorf("fetch zones: feature %d has no cost", i)
		}
		if *f.Properties.Cost < 0 {
			return nil, fmt.Errorf("fetch zones: feature %d has negative cost %d", i, *f.Properties.Cost)
		}

		var label *domain.Coordinate
		if len(f.Properties.LabelPosition) == 2 {
			// GeoJSON positions are [lng, lat].
			label = &domain.Coordinate{Lat: f.Properties.LabelPosition[1], Lng: f.Properties.LabelPosition[0]}
		}

		switch f.Geometry.Type {
		case "Polygon":
			var coords [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				return nil, fmt.Errorf("fetch zones: feature %d polygon coordinates: %w", i, err)
			}

			zone, err := buildZone(f.Properties.Name, *f.Properties.Cost, label, coords)
			if err != nil {
				return nil, fmt.Errorf("fetch zones: feature %d: %w", i, err)
			}
			dataset = append(dataset, zone)

		case "MultiPolygon":
			var coords [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
				return nil, fmt.Errorf("fetch zones: feature %d multipolygon coordinates: %w", i, err)
			}

			// Each member polygon becomes its own zone record sharing the
			// feature's cost; first-match ordering is unaffected because
			// the members of one feature never overlap each other.
			for j, poly := range coords {
				zone, err := buildZone(f.Properties.Name, *f.Properties.Cost, label, poly)
				if err != nil {
					return nil, fmt.Errorf("fetch zones: feature %d polygon %d: %w", i, j, err)
				}
				dataset = append(dataset, zone)
			}

		default:
			return nil, fmt.Errorf("fetch zones: feature %d has unsupported geometry %q", i, f.Geometry.Type)
		}
	}

	return dataset, nil
}

func buildZone(name string, cost int, label *domain.Coordinate, rings [][][]float64) (domain.Zone, error) {
	if len(rings) == 0 {
		return domain.Zone{}, errors.New("polygon has no rings")
	}

	outer, err := buildRing(rings[0])
	if err != nil {
		return domain.Zone{}, fmt.Errorf("outer ring: %w", err)
	}

	holes := make([]domain.Ring, 0, len(rings)-1)
	for i, raw := range rings[1:] {
		hole, err := buildRing(raw)
		if err != nil {
			return domain.Zone{}, fmt.Errorf("hole ring %d: %w", i, err)
		}
		holes = append(holes, hole)
	}

	return domain.Zone{
		Name:          name,
		Cost:          cost,
		Outer:         outer,
		Holes:         holes,
		LabelPosition: label,
	}, nil
}

func buildRing(raw [][]float64) (domain.Ring, error) {
	ring := make(domain.Ring, 0, len(raw))
	for _, pos := range raw {
		if len(pos) < 2 {
			return nil, fmt.Errorf("position has %d ordinates", len(pos))
		}
		ring = append(ring, domain.Coordinate{Lat: pos[1], Lng: pos[0]})
	}

	// GeoJSON rings repeat the first vertex at the end; the containment
	// test closes the ring implicitly.
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	if len(ring) < 3 {
		return nil, fmt.Errorf("ring has %d distinct vertices, need at least 3", len(ring))
	}

	return ring, nil
}

// doWithRetry retries transient failures (network errors, 429/5xx)
// with exponential backoff while respecting context cancellation.
func (s *HTTPSource) doWithRetry(ctx context.Context) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.session.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		retry := false
		if err != nil {
			lastErr = err
			var netErr net.Error
			if errors.As(err, &netErr) {
				retry = true
			}
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
			switch resp.StatusCode {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
