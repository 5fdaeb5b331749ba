package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bakery-order-service/internal/domain"
)

// SQLite-backed implementation of the ProductRepository port.
type SqliteProductRepository struct{ DB *sql.DB }

func NewSqliteProductRepository(db *sql.DB) *SqliteProductRepository {
	return &SqliteProductRepository{DB: db}
}

// Return all catalog products stored in the database.
func (s *SqliteProductRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite product repository: DB is nil")
	}

	query := `
	SELECT
		product_id,
		name,
		description
	FROM products
	ORDER BY product_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: query products table: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, 16)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}

	return products, nil
}
