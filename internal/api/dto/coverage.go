package dto

// CoverageRequest carries either a free-text address or a precise
// coordinate from an autocomplete selection. When both are present the
// coordinate wins and no geocoding is performed.
type CoverageRequest struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type CoverageResponse struct {
	Status       string   `json:"status"`
	ShippingCost *int     `json:"shipping_cost"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

type ZoneResponse struct {
	Name         string        `json:"name"`
	ShippingCost int           `json:"shipping_cost"`
	LabelLat     *float64      `json:"label_lat,omitempty"`
	LabelLng     *float64      `json:"label_lng,omitempty"`
	Outer        [][]float64   `json:"outer"`
	Holes        [][][]float64 `json:"holes,omitempty"`
}

type ListZonesResponse struct {
	Zones []ZoneResponse `json:"zones"`
}
