package dto

type LineRequest struct {
	ProductID string `json:"product_id"`
	Format    string `json:"format"`
	Quantity  int    `json:"quantity"`
}

type QuoteRequest struct {
	Lines []LineRequest `json:"lines"`
}

type LineResponse struct {
	ProductID string `json:"product_id"`
	Format    string `json:"format"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	LineTotal int    `json:"line_total"`
}

type TotalsResponse struct {
	Total12oz     int `json:"total_12oz"`
	Total9oz      int `json:"total_9oz"`
	TotalQuantity int `json:"total_quantity"`
	TotalAmount   int `json:"total_amount"`
}

type CreateCartResponse struct {
	CartID string `json:"cart_id"`
}

type CartStateResponse struct {
	CartID       string            `json:"cart_id"`
	Lines        []LineResponse    `json:"lines"`
	Totals       TotalsResponse    `json:"totals"`
	MinimumUnits int               `json:"minimum_units"`
	Eligible     bool              `json:"eligible"`
	Coverage     *CoverageResponse `json:"coverage,omitempty"`
}
