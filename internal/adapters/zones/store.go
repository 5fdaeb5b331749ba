package zones

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/platform/metrics"
	"bakery-order-service/internal/ports"
)

// Store serves the process-wide zone dataset. The dataset is fetched
// at most once: concurrent callers arriving before the first fetch
// completes share the in-flight load via singleflight, and every later
// caller reads the published value without touching the network.
// Failed loads are not cached, so the next call retries the fetch.
type Store struct {
	source ports.ZoneSource

	loaded atomic.Pointer[domain.ZoneDataset]
	group  singleflight.Group
}

func NewStore(source ports.ZoneSource) *Store {
	return &Store{source: source}
}

// Zones returns the shared dataset, loading it on first use.
func (s *Store) Zones(ctx context.Context) (domain.ZoneDataset, error) {
	if ds := s.loaded.Load(); ds != nil {
		return *ds, nil
	}

	v, err, _ := s.group.Do("zones", func() (any, error) {
		// A winning loader may have published while we queued.
		if ds := s.loaded.Load(); ds != nil {
			return *ds, nil
		}

		ds, err := s.source.FetchZones(ctx)
		if err != nil {
			metrics.RecordZoneDatasetLoad(false)
			return nil, fmt.Errorf("zone store: %w", err)
		}

		metrics.RecordZoneDatasetLoad(true)
		s.loaded.Store(&ds)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(domain.ZoneDataset), nil
}
