package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/platform/metrics"
)

var (
	// ErrBelowMinimum means the cart has fewer total units than the
	// configured minimum order size.
	ErrBelowMinimum = errors.New("order below minimum unit count")
	// ErrCoverageUnresolved means no coverage result is attached to the
	// cart yet; the delivery address must be checked first.
	ErrCoverageUnresolved = errors.New("delivery coverage not resolved")
	// ErrOutOfCoverage means the resolved address lies outside every
	// delivery zone.
	ErrOutOfCoverage = errors.New("address out of delivery coverage")
)

// Contact carries the business-contact fields merged into the order
// payload. The core does not validate or persist them beyond requiring
// a name and phone.
type Contact struct {
	Business string
	Name     string
	Phone    string
	Email    string
	Address  string
	Note     string
}

// OrderLine is one priced line of a composed order.
type OrderLine struct {
	ProductID string
	Format    domain.Format
	Quantity  int
	UnitPrice int
	LineTotal int
}

// OrderPayload is the submittable order handed to the external
// persistence/notification flow. The service composes it; it does not
// perform the submission.
type OrderPayload struct {
	OrderID      string
	CreatedAt    time.Time
	Lines        []OrderLine
	Totals       Totals
	ShippingCost int
	GrandTotal   int
	Contact      Contact
}

// OrderComposer combines cart totals, the resolved shipping cost and
// contact fields into a submittable order. Submission is gated on the
// minimum-order invariant and on a positive coverage result.
type OrderComposer struct {
	pricing  *PricingEngine
	minUnits int
}

func NewOrderComposer(pricing *PricingEngine, minUnits int) *OrderComposer {
	return &OrderComposer{pricing: pricing, minUnits: minUnits}
}

// MinimumUnits returns the configured minimum order size.
func (c *OrderComposer) MinimumUnits() int { return c.minUnits }

// Compose builds the order payload from the cart. On success the cart
// is cleared; callers must hold the cart exclusively for the duration.
func (c *OrderComposer) Compose(cart *domain.Cart, contact Contact, now time.Time) (OrderPayload, error) {
	totals, lines, err := c.priceCart(cart)
	if err != nil {
		return OrderPayload{}, err
	}

	if totals.TotalQuantity < c.minUnits {
		return OrderPayload{}, fmt.Errorf("%w: have %d, need %d", ErrBelowMinimum, totals.TotalQuantity, c.minUnits)
	}

	coverage := cart.Coverage()
	if coverage == nil {
		return OrderPayload{}, ErrCoverageUnresolved
	}
	if !coverage.InCoverage {
		return OrderPayload{}, ErrOutOfCoverage
	}

	payload := OrderPayload{
		OrderID:      uuid.NewString(),
		CreatedAt:    now,
		Lines:        lines,
		Totals:       totals,
		ShippingCost: *coverage.Cost,
		GrandTotal:   totals.TotalAmount + *coverage.Cost,
		Contact:      contact,
	}

	// A composed order is submitted from the caller's perspective; the
	// cart session starts over.
	cart.Clear()
	metrics.RecordOrderComposed()

	return payload, nil
}

// Quote prices the cart without gating or clearing, for the live
// totals shown while the cart is still being built.
func (c *OrderComposer) Quote(cart *domain.Cart) (Totals, []OrderLine, error) {
	return c.priceCart(cart)
}

func (c *OrderComposer) priceCart(cart *domain.Cart) (Totals, []OrderLine, error) {
	cartLines := cart.Lines()

	totals, err := c.pricing.ComputeTotals(cartLines)
	if err != nil {
		return Totals{}, nil, fmt.Errorf("compose order: %w", err)
	}

	perFormat := map[domain.Format]int{
		domain.Format12oz: totals.Total12oz,
		domain.Format9oz:  totals.Total9oz,
	}

	lines := make([]OrderLine, 0, len(cartLines))
	for _, l := range cartLines {
		unitPrice, err := c.pricing.UnitPrice(l.Format, perFormat[l.Format])
		if err != nil {
			return Totals{}, nil, fmt.Errorf("compose order: %w", err)
		}
		lines = append(lines, OrderLine{
			ProductID: l.ProductID,
			Format:    l.Format,
			Quantity:  l.Quantity,
			UnitPrice: unitPrice,
			LineTotal: l.Quantity * unitPrice,
		})
	}

	return totals, lines, nil
}
