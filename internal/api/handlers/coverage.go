package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/ports"
	"bakery-order-service/internal/services"
)

// CoverageHandler answers "can you deliver here and for how much" for
// the standalone coverage-map surface and the order form.
type CoverageHandler struct {
	Coverage *services.CoverageService
	Zones    ports.ZoneProvider
}

// Check resolves coverage for an address or a precise coordinate.
func (h *CoverageHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.CoverageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cov, ok := checkCoverage(r, h.Coverage, req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "address or lat/lng is required")
		return
	}

	writeJSON(w, r, http.StatusOK, coverageResponse(cov))
}

// ListZones returns the zone geometry and costs for map display.
func (h *CoverageHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.Zones.Zones(r.Context())
	if err != nil {
		slog.Error("list zones failed", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "zone dataset unavailable")
		return
	}

	res := dto.ListZonesResponse{Zones: make([]dto.ZoneResponse, 0, len(dataset))}
	for _, z := range dataset {
		zr := dto.ZoneResponse{
			Name:         z.Name,
			ShippingCost: z.Cost,
			Outer:        ringToPairs(z.Outer),
		}
		if z.LabelPosition != nil {
			lat, lng := z.LabelPosition.Lat, z.LabelPosition.Lng
			zr.LabelLat, zr.LabelLng = &lat, &lng
		}
		for _, hole := range z.Holes {
			zr.Holes = append(zr.Holes, ringToPairs(hole))
		}
		res.Zones = append(res.Zones, zr)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// checkCoverage runs the structured-selection path when a coordinate
// is supplied and the free-text path otherwise. Returns false when the
// request carries neither.
func checkCoverage(r *http.Request, svc *services.CoverageService, req dto.CoverageRequest) (services.Coverage, bool) {
	if req.Lat != nil && req.Lng != nil {
		point := domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		return svc.CheckPoint(r.Context(), point), true
	}

	if strings.TrimSpace(req.Address) != "" {
		return svc.CheckAddress(r.Context(), req.Address), true
	}

	return services.Coverage{}, false
}

func coverageResponse(cov services.Coverage) dto.CoverageResponse {
	res := dto.CoverageResponse{
		Status:       string(cov.Status),
		ShippingCost: cov.Cost,
	}
	if cov.Point != nil {
		lat, lng := cov.Point.Lat, cov.Point.Lng
		res.Lat, res.Lng = &lat, &lng
	}
	return res
}

func ringToPairs(ring domain.Ring) [][]float64 {
	out := make([][]float64, 0, len(ring))
	for _, c := range ring {
		out = append(out, []float64{c.Lat, c.Lng})
	}
	return out
}
