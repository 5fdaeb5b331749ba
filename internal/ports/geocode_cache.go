package ports

import (
	"context"

	"bakery-order-service/internal/domain"
)

// GeocodeCache persists address -> coordinate resolutions so repeated
// coverage checks for the same address skip the external provider.
// Address keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Get returns the cached coordinate and whether it was present.
	Get(ctx context.Context, address string) (domain.Coordinate, bool, error)
	// Put stores or replaces the coordinate for an address.
	Put(ctx context.Context, address string, coord domain.Coordinate) error
}
