package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/services"
)

// CartHandler manages server-side cart sessions: line mutations,
// live pricing, and coverage attachment.
type CartHandler struct {
	Registry *services.CartRegistry
	Composer *services.OrderComposer
	Coverage *services.CoverageService
}

func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.Registry.Create()
	writeJSON(w, r, http.StatusCreated, dto.CreateCartResponse{CartID: id})
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondWithState(w, r, chi.URLParam(r, "cartID"), func(cart *domain.Cart) error {
		return nil
	})
}

// UpsertLine sets a line's quantity; quantity zero removes the line.
func (h *CartHandler) UpsertLine(w http.ResponseWriter, r *http.Request) {
	var req dto.LineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity < 0 {
		writeError(w, r, http.StatusBadRequest, "quantity must be non-negative")
		return
	}
	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.respondWithState(w, r, chi.URLParam(r, "cartID"), func(cart *domain.Cart) error {
		cart.AddOrUpdateLine(req.ProductID, format, req.Quantity)
		return nil
	})
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	productID := chi.URLParam(r, "productID")

	h.respondWithState(w, r, chi.URLParam(r, "cartID"), func(cart *domain.Cart) error {
		cart.RemoveLine(productID, format)
		return nil
	})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respondWithState(w, r, chi.URLParam(r, "cartID"), func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

// AttachCoverage resolves the delivery address and attaches the result
// to the cart. The resolution runs outside the registry lock; the
// sequence token taken up front makes sure a slower, older resolution
// can never overwrite a newer one.
func (h *CartHandler) AttachCoverage(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req dto.CoverageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var seq uint64
	err := h.Registry.Do(cartID, func(cart *domain.Cart) error {
		seq = cart.BeginCoverage()
		return nil
	})
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	cov, ok := checkCoverage(r, h.Coverage, req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "address or lat/lng is required")
		return
	}

	if cov.Definitive() {
		err = h.Registry.Do(cartID, func(cart *domain.Cart) error {
			if !cart.ApplyCoverage(seq, cov.Result()) {
				slog.Debug("stale coverage result discarded", "cart_id", cartID)
			}
			return nil
		})
		if err != nil {
			writeCartError(w, r, err)
			return
		}
	}

	h.respondWithState(w, r, cartID, func(cart *domain.Cart) error {
		return nil
	})
}

// respondWithState applies fn to the cart and renders the resulting
// state. State is always derived from the line map under the registry
// lock, so totals cannot drift from the lines.
func (h *CartHandler) respondWithState(w http.ResponseWriter, r *http.Request, cartID string, fn func(cart *domain.Cart) error) {
	var res dto.CartStateResponse

	err := h.Registry.Do(cartID, func(cart *domain.Cart) error {
		if err := fn(cart); err != nil {
			return err
		}

		state, err := h.cartState(cartID, cart)
		if err != nil {
			return err
		}
		res = state
		return nil
	})
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CartHandler) cartState(cartID string, cart *domain.Cart) (dto.CartStateResponse, error) {
	totals, lines, err := h.Composer.Quote(cart)
	if err != nil {
		return dto.CartStateResponse{}, err
	}

	res := dto.CartStateResponse{
		CartID:       cartID,
		Lines:        linesResponse(lines),
		Totals:       totalsResponse(totals),
		MinimumUnits: h.Composer.MinimumUnits(),
		Eligible:     totals.TotalQuantity >= h.Composer.MinimumUnits(),
	}

	if cov := cart.Coverage(); cov != nil {
		status := services.StatusNotCovered
		if cov.InCoverage {
			status = services.StatusCovered
		}
		res.Coverage = &dto.CoverageResponse{
			Status:       string(status),
			ShippingCost: cov.Cost,
		}
	}

	return res, nil
}

func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrCartNotFound) {
		writeError(w, r, http.StatusNotFound, "cart not found")
		return
	}

	slog.Error("cart operation failed", "err", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func linesResponse(lines []services.OrderLine) []dto.LineResponse {
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.LineResponse{
			ProductID: l.ProductID,
			Format:    string(l.Format),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return out
}

func totalsResponse(t services.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		Total12oz:     t.Total12oz,
		Total9oz:      t.Total9oz,
		TotalQuantity: t.TotalQuantity,
		TotalAmount:   t.TotalAmount,
	}
}
