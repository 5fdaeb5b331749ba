package ports

import (
	"context"
	"errors"

	"bakery-order-service/internal/domain"
)

// ErrNoResult is returned when the provider finds no candidate place
// for the given text.
var ErrNoResult = errors.New("geocode: no result")

// Contract for resolving free-text addresses to coordinates.
// Callers that already hold a precise place selection (e.g., from an
// autocomplete widget) bypass this port and supply the coordinate
// directly.
type Geocoder interface {
	// Resolve free text to the best-matching coordinate.
	// Returns ErrNoResult when the provider has no candidates.
	Geocode(ctx context.Context, text string) (domain.Coordinate, error)
}
