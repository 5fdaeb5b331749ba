package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-order-service/internal/adapters/geocode"
	"bakery-order-service/internal/api/dto"
	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/services"
)

const testAddress = "Bulevar oslobodjenja 30, Novi Sad"

type stubZones struct {
	dataset domain.ZoneDataset
}

func (s *stubZones) Zones(ctx context.Context) (domain.ZoneDataset, error) {
	return s.dataset, nil
}

type stubProducts struct {
	products []*domain.Product
}

func (s *stubProducts) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products, nil
}

// newTestRouter wires the full HTTP stack against in-memory adapters.
// One delivery zone covers lat 44..46, lng 18..20 at cost 1500; the
// test address geocodes inside it.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cost := 1500
	zone := domain.Zone{
		Name: "Novi Sad",
		Cost: cost,
		Outer: domain.Ring{
			{Lat: 44, Lng: 18},
			{Lat: 44, Lng: 20},
			{Lat: 46, Lng: 20},
			{Lat: 46, Lng: 18},
		},
	}

	geocoder := geocode.NewMockGeocoder(map[string]domain.Coordinate{
		testAddress: {Lat: 45.25, Lng: 19.84},
	})

	pricing, err := services.NewPricingEngine(domain.DefaultTierTable())
	if err != nil {
		t.Fatalf("NewPricingEngine: %v", err)
	}

	zones := &stubZones{dataset: domain.ZoneDataset{zone}}

	return NewRouter(Deps{
		Products: &stubProducts{products: []*domain.Product{
			{ID: "cheese-12", Name: "Cheese burek"},
			{ID: "plain-9", Name: "Plain burek (small)"},
		}},
		Zones:    zones,
		Coverage: services.NewCoverageService(zones, geocoder),
		Pricing:  pricing,
		Registry: services.NewCartRegistry(),
		Composer: services.NewOrderComposer(pricing, 6),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCoverageCheckByAddress(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/coverage", dto.CoverageRequest{Address: testAddress})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	res := decodeBody[dto.CoverageResponse](t, rec)
	if res.Status != "covered" {
		t.Fatalf("status = %q, want covered", res.Status)
	}
	if res.ShippingCost == nil || *res.ShippingCost != 1500 {
		t.Fatalf("shipping_cost = %v, want 1500", res.ShippingCost)
	}
	if res.Lat == nil || res.Lng == nil {
		t.Fatal("expected resolved coordinate in response")
	}
}

func TestCoverageCheckCoordinateWins(t *testing.T) {
	h := newTestRouter(t)

	// Outside coordinate plus an in-coverage address: the coordinate
	// is authoritative and no geocoding happens.
	lat, lng := 48.2, 16.3
	rec := doJSON(t, h, http.MethodPost, "/coverage", dto.CoverageRequest{
		Address: testAddress,
		Lat:     &lat,
		Lng:     &lng,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	res := decodeBody[dto.CoverageResponse](t, rec)
	if res.Status != "not_covered" {
		t.Fatalf("status = %q, want not_covered", res.Status)
	}
	if res.ShippingCost != nil {
		t.Fatalf("shipping_cost = %d, want nil", *res.ShippingCost)
	}
}

func TestCoverageCheckUnknownAddress(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/coverage", dto.CoverageRequest{Address: "nowhere special"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	res := decodeBody[dto.CoverageResponse](t, rec)
	if res.Status != "address_not_found" {
		t.Fatalf("status = %q, want address_not_found", res.Status)
	}
}

func TestCoverageCheckMissingInput(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/coverage", dto.CoverageRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListZones(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/zones", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	res := decodeBody[dto.ListZonesResponse](t, rec)
	if len(res.Zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(res.Zones))
	}
	if res.Zones[0].Name != "Novi Sad" || res.Zones[0].ShippingCost != 1500 {
		t.Fatalf("unexpected zone: %+v", res.Zones[0])
	}
	if len(res.Zones[0].Outer) != 4 {
		t.Fatalf("got %d outer vertices, want 4", len(res.Zones[0].Outer))
	}
}

func TestQuoteAggregateTier(t *testing.T) {
	h := newTestRouter(t)

	// 9 + 6 units of 12oz aggregate to 15, so every 12oz line prices
	// at the 15..19 tier.
	rec := doJSON(t, h, http.MethodPost, "/quote", dto.QuoteRequest{Lines: []dto.LineRequest{
		{ProductID: "cheese-12", Format: "12oz", Quantity: 9},
		{ProductID: "meat-12", Format: "12oz", Quantity: 6},
		{ProductID: "plain-9", Format: "9oz", Quantity: 4},
	}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	res := decodeBody[dto.TotalsResponse](t, rec)
	if res.Total12oz != 15 || res.Total9oz != 4 || res.TotalQuantity != 19 {
		t.Fatalf("unexpected quantities: %+v", res)
	}
	want := 15*1000 + 4*800
	if res.TotalAmount != want {
		t.Fatalf("total_amount = %d, want %d", res.TotalAmount, want)
	}
}

func TestQuoteRejectsInvalidFormat(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/quote", dto.QuoteRequest{Lines: []dto.LineRequest{
		{ProductID: "cheese-12", Format: "16oz", Quantity: 1},
	}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProducts(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	res := decodeBody[dto.ListProductsResponse](t, rec)
	if len(res.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(res.Products))
	}
	if res.Products[0].ProductID != "cheese-12" {
		t.Fatalf("first product = %q, want cheese-12", res.Products[0].ProductID)
	}
}

func createCart(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/carts", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart status = %d, want 201", rec.Code)
	}
	res := decodeBody[dto.CreateCartResponse](t, rec)
	if res.CartID == "" {
		t.Fatal("empty cart_id")
	}
	return res.CartID
}

func upsertLine(t *testing.T, h http.Handler, cartID, productID, format string, qty int) dto.CartStateResponse {
	t.Helper()

	rec := doJSON(t, h, http.MethodPut, "/carts/"+cartID+"/lines", dto.LineRequest{
		ProductID: productID,
		Format:    format,
		Quantity:  qty,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert line status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[dto.CartStateResponse](t, rec)
}

func TestCartLifecycle(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	state := upsertLine(t, h, cartID, "cheese-12", "12oz", 4)
	if state.Totals.TotalQuantity != 4 || state.Eligible {
		t.Fatalf("after first line: %+v", state)
	}

	state = upsertLine(t, h, cartID, "plain-9", "9oz", 3)
	if state.Totals.TotalQuantity != 7 || !state.Eligible {
		t.Fatalf("after second line: %+v", state)
	}
	want := 4*1100 + 3*800
	if state.Totals.TotalAmount != want {
		t.Fatalf("total_amount = %d, want %d", state.Totals.TotalAmount, want)
	}

	// Re-upserting the same pair replaces the quantity.
	state = upsertLine(t, h, cartID, "cheese-12", "12oz", 2)
	if state.Totals.Total12oz != 2 {
		t.Fatalf("total_12oz = %d, want 2", state.Totals.Total12oz)
	}

	rec := doJSON(t, h, http.MethodDelete, "/carts/"+cartID+"/lines/plain-9/9oz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove line status = %d, want 200", rec.Code)
	}
	state = decodeBody[dto.CartStateResponse](t, rec)
	if len(state.Lines) != 1 || state.Totals.Total9oz != 0 {
		t.Fatalf("after remove: %+v", state)
	}

	rec = doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", rec.Code)
	}
	state = decodeBody[dto.CartStateResponse](t, rec)
	if len(state.Lines) != 0 || state.Totals.TotalAmount != 0 {
		t.Fatalf("after clear: %+v", state)
	}
}

func TestCartNotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/carts/no-such-cart", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestOrderFlow(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	upsertLine(t, h, cartID, "cheese-12", "12oz", 10)
	upsertLine(t, h, cartID, "plain-9", "9oz", 8)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/coverage", dto.CoverageRequest{Address: testAddress})
	if rec.Code != http.StatusOK {
		t.Fatalf("attach coverage status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	state := decodeBody[dto.CartStateResponse](t, rec)
	if state.Coverage == nil || state.Coverage.Status != "covered" {
		t.Fatalf("coverage not attached: %+v", state.Coverage)
	}

	rec = doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/order", dto.OrderRequest{
		Business: "Kafana Stari Grad",
		Name:     "Milica",
		Phone:    "+381601234567",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	order := decodeBody[dto.OrderResponse](t, rec)
	if order.OrderID == "" {
		t.Fatal("empty order_id")
	}
	if order.ShippingCost != 1500 {
		t.Fatalf("shipping_cost = %d, want 1500", order.ShippingCost)
	}
	want := 10*1100 + 8*800 + 1500
	if order.GrandTotal != want {
		t.Fatalf("grand_total = %d, want %d", order.GrandTotal, want)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(order.Lines))
	}

	// Submission clears the cart session.
	rec = doJSON(t, h, http.MethodGet, "/carts/"+cartID, nil)
	state = decodeBody[dto.CartStateResponse](t, rec)
	if len(state.Lines) != 0 || state.Coverage != nil {
		t.Fatalf("cart not cleared after submit: %+v", state)
	}
}

func TestOrderBelowMinimum(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	upsertLine(t, h, cartID, "cheese-12", "12oz", 5)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/coverage", dto.CoverageRequest{Address: testAddress})
	if rec.Code != http.StatusOK {
		t.Fatalf("attach coverage status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/order", dto.OrderRequest{Name: "Milica", Phone: "+381601234567"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderRequiresCoverage(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	upsertLine(t, h, cartID, "cheese-12", "12oz", 10)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/order", dto.OrderRequest{Name: "Milica", Phone: "+381601234567"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderOutOfCoverage(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	upsertLine(t, h, cartID, "cheese-12", "12oz", 10)

	lat, lng := 48.2, 16.3
	rec := doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/coverage", dto.CoverageRequest{Lat: &lat, Lng: &lng})
	if rec.Code != http.StatusOK {
		t.Fatalf("attach coverage status = %d", rec.Code)
	}
	state := decodeBody[dto.CartStateResponse](t, rec)
	if state.Coverage == nil || state.Coverage.Status != "not_covered" {
		t.Fatalf("coverage = %+v, want not_covered attached", state.Coverage)
	}

	rec = doJSON(t, h, http.MethodPost, "/carts/"+cartID+"/order", dto.OrderRequest{Name: "Milica", Phone: "+381601234567"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderRequiresContact(t *testing.T) {
	h := newTestRouter(t)
	cartID := createCart(t, h)

	for _, req := range []dto.OrderRequest{
		{Phone: "+381601234567"},
		{Name: "Milica"},
	} {
		rec := doJSON(t, h, http.MethodPost, fmt.Sprintf("/carts/%s/order", cartID), req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 for %+v", rec.Code, req)
		}
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
