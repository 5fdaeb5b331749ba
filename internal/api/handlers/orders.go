package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/services"
)

// OrderHandler composes submittable orders from cart sessions.
type OrderHandler struct {
	Registry *services.CartRegistry
	Composer *services.OrderComposer
}

// Submit gates on the minimum-order and coverage invariants and, when
// they hold, returns the composed payload for the external submission
// flow. The cart is cleared on success.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req dto.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		writeError(w, r, http.StatusBadRequest, "name and phone are required")
		return
	}

	contact := services.Contact{
		Business: req.Business,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Note:     req.Note,
	}

	var payload services.OrderPayload
	err := h.Registry.Do(cartID, func(cart *domain.Cart) error {
		var err error
		payload, err = h.Composer.Compose(cart, contact, time.Now().UTC())
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCartNotFound):
			writeError(w, r, http.StatusNotFound, "cart not found")
		case errors.Is(err, services.ErrBelowMinimum):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrCoverageUnresolved):
			writeError(w, r, http.StatusUnprocessableEntity, "delivery coverage not resolved for this cart")
		case errors.Is(err, services.ErrOutOfCoverage):
			writeError(w, r, http.StatusUnprocessableEntity, "address is outside the delivery area")
		default:
			writeCartError(w, r, err)
		}
		return
	}

	res := dto.OrderResponse{
		OrderID:      payload.OrderID,
		CreatedAt:    payload.CreatedAt,
		Lines:        linesResponse(payload.Lines),
		Totals:       totalsResponse(payload.Totals),
		ShippingCost: payload.ShippingCost,
		GrandTotal:   payload.GrandTotal,
		Business:     payload.Contact.Business,
		Name:         payload.Contact.Name,
		Phone:        payload.Contact.Phone,
		Email:        payload.Contact.Email,
		Address:      payload.Contact.Address,
		Note:         payload.Contact.Note,
	}

	writeJSON(w, r, http.StatusCreated, res)
}
