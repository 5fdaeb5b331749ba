package domain

import "sort"

// CartLine is one product selection in a cart.
type CartLine struct {
	ProductID string
	Format    Format
	Quantity  int
}

type lineKey struct {
	productID string
	format    Format
}

// Cart holds the current selection keyed by (product, format).
// Quantities are the only stored state; every aggregate is recomputed
// from the line map on demand so totals can never drift. A coverage
// result may be attached once resolved; attachment is guarded by a
// monotonically increasing sequence so a slow, older resolution cannot
// clobber a newer one.
//
// Cart is not safe for concurrent use; callers synchronize access.
type Cart struct {
	lines map[lineKey]int

	coverage    *CoverageResult
	coverageSeq uint64
}

func NewCart() *Cart {
	return &Cart{lines: make(map[lineKey]int)}
}

// AddOrUpdateLine sets the quantity for a (product, format) pair.
// Quantity zero removes the line.
func (c *Cart) AddOrUpdateLine(productID string, format Format, quantity int) {
	k := lineKey{productID: productID, format: format}
	if quantity <= 0 {
		delete(c.lines, k)
		return
	}
	c.lines[k] = quantity
}

// RemoveLine deletes the line for a (product, format) pair.
func (c *Cart) RemoveLine(productID string, format Format) {
	delete(c.lines, lineKey{productID: productID, format: format})
}

// Clear empties the cart and drops any attached coverage result.
// Valid from any state; in-flight coverage resolutions become stale.
func (c *Cart) Clear() {
	c.lines = make(map[lineKey]int)
	c.coverage = nil
	c.coverageSeq++
}

// Lines returns the current lines in deterministic order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.lines))
	for k, qty := range c.lines {
		out = append(out, CartLine{ProductID: k.productID, Format: k.format, Quantity: qty})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Format < out[j].Format
	})

	return out
}

// TotalQuantity sums quantities across all lines of all formats.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, qty := range c.lines {
		total += qty
	}
	return total
}

// BeginCoverage starts a new coverage resolution and returns its
// sequence token. Any resolution started earlier is now stale.
func (c *Cart) BeginCoverage() uint64 {
	c.coverageSeq++
	return c.coverageSeq
}

// ApplyCoverage attaches a resolved coverage result if seq is still
// current. Stale results are silently discarded and false is returned.
func (c *Cart) ApplyCoverage(seq uint64, result CoverageResult) bool {
	if seq != c.coverageSeq {
		return false
	}
	c.coverage = &result
	return true
}

// Coverage returns the attached coverage result, or nil if none has
// been resolved since the last Clear.
func (c *Cart) Coverage() *CoverageResult {
	return c.coverage
}
