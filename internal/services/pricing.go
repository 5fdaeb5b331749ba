package services

import (
	"fmt"

	"bakery-order-service/internal/domain"
)

// Totals is the derived pricing aggregate for a set of cart lines.
// TotalAmount is always recomputed from the lines; it is never stored.
type Totals struct {
	Total12oz     int
	Total9oz      int
	TotalQuantity int
	TotalAmount   int
}

// PricingEngine computes per-unit prices and order totals from the
// configured volume tier schedule.
//
// The tier for a line is determined by the aggregate quantity of that
// line's format across the whole cart, not by the line's own quantity:
// 4 units of one flavor plus 10 of another, both 12oz, price all 14
// units at the 14-unit tier. Changing one line can therefore change
// the effective unit price of every other line of the same format.
type PricingEngine struct {
	tiers domain.TierTable
}

// NewPricingEngine builds an engine from a validated tier table.
func NewPricingEngine(tiers domain.TierTable) (*PricingEngine, error) {
	if err := tiers.Validate(); err != nil {
		return nil, fmt.Errorf("pricing engine: %w", err)
	}
	return &PricingEngine{tiers: tiers}, nil
}

// UnitPrice returns the per-unit price for a format at the given
// aggregate unit count.
func (e *PricingEngine) UnitPrice(format domain.Format, totalUnits int) (int, error) {
	return e.tiers.UnitPrice(format, totalUnits)
}

// ComputeTotals derives per-format quantities and the order amount
// from the cart lines. All money values are integer smallest currency
// units; totals are plain sums with no rounding.
func (e *PricingEngine) ComputeTotals(lines []domain.CartLine) (Totals, error) {
	var totals Totals

	perFormat := make(map[domain.Format]int, 2)
	for _, line := range lines {
		if line.Quantity < 0 {
			return Totals{}, fmt.Errorf("compute totals: negative quantity %d for product %q", line.Quantity, line.ProductID)
		}
		perFormat[line.Format] += line.Quantity
	}

	totals.Total12oz = perFormat[domain.Format12oz]
	totals.Total9oz = perFormat[domain.Format9oz]
	totals.TotalQuantity = totals.Total12oz + totals.Total9oz

	for _, line := range lines {
		if line.Quantity == 0 {
			continue
		}

		unitPrice, err := e.tiers.UnitPrice(line.Format, perFormat[line.Format])
		if err != nil {
			return Totals{}, fmt.Errorf("compute totals: %w", err)
		}

		totals.TotalAmount += line.Quantity * unitPrice
	}

	return totals, nil
}
