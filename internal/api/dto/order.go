package dto

import "time"

type OrderRequest struct {
	Business string `json:"business"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

type OrderResponse struct {
	OrderID      string         `json:"order_id"`
	CreatedAt    time.Time      `json:"created_at"`
	Lines        []LineResponse `json:"lines"`
	Totals       TotalsResponse `json:"totals"`
	ShippingCost int            `json:"shipping_cost"`
	GrandTotal   int            `json:"grand_total"`
	Business     string         `json:"business"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Address      string         `json:"address"`
	Note         string         `json:"note"`
}
