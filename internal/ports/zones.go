package ports

import (
	"context"

	"bakery-order-service/internal/domain"
)

// ZoneSource fetches the delivery-zone polygon dataset from its
// upstream resource. Implementations perform one network fetch per
// call; caching and deduplication live behind ZoneProvider.
type ZoneSource interface {
	FetchZones(ctx context.Context) (domain.ZoneDataset, error)
}

// ZoneProvider serves the shared, process-wide zone dataset.
// Implementations must return the same resolved dataset to every
// caller once loaded, and must not cache failed loads.
type ZoneProvider interface {
	Zones(ctx context.Context) (domain.ZoneDataset, error)
}
