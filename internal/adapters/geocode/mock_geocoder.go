package geocode

import (
	"context"
	"fmt"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/ports"
)

// MockGeocoder resolves addresses from a fixed table, for tests.
type MockGeocoder struct {
	m map[string]domain.Coordinate
}

func NewMockGeocoder(entries map[string]domain.Coordinate) *MockGeocoder {
	m := make(map[string]domain.Coordinate, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, text string) (domain.Coordinate, error) {
	c, ok := g.m[text]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("mock geocode %q: %w", text, ports.ErrNoResult)
	}
	return c, nil
}
