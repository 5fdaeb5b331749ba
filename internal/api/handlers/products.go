package handlers

import (
	"log/slog"
	"net/http"

	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/ports"
)

// ProductHandler exposes read-only catalog retrieval endpoints.
type ProductHandler struct {
	Repo ports.ProductRepository
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Repo.ListProducts(r.Context())
	if err != nil {
		slog.Error("list products failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListProductsResponse{
		Products: make([]dto.ProductResponse, 0, len(products)),
	}
	for _, p := range products {
		res.Products = append(res.Products, dto.ProductResponse{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
