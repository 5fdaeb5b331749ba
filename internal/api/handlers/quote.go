package handlers

import (
	"log/slog"
	"net/http"

	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/services"
)

// QuoteHandler prices an ad-hoc set of lines without a cart session.
// Product cards and the cart bar use it for live per-unit prices while
// the user is still deciding.
type QuoteHandler struct {
	Pricing *services.PricingEngine
}

func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]domain.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		format, err := domain.ParseFormat(l.Format)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if l.Quantity < 0 {
			writeError(w, r, http.StatusBadRequest, "quantity must be non-negative")
			return
		}
		lines = append(lines, domain.CartLine{ProductID: l.ProductID, Format: format, Quantity: l.Quantity})
	}

	totals, err := h.Pricing.ComputeTotals(lines)
	if err != nil {
		slog.Error("quote failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, totalsResponse(totals))
}
