package ports

import (
	"context"

	"bakery-order-service/internal/domain"
)

// Port: a boundary for retrieving catalog products from a data source.
type ProductRepository interface {
	// Retrieve all products available for ordering.
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}
