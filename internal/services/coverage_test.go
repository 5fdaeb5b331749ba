package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bakery-order-service/internal/adapters/geocode"
	"bakery-order-service/internal/domain"
)

func squareZone(name string, cost int, minLat, minLng, maxLat, maxLng float64) domain.Zone {
	return domain.Zone{
		Name: name,
		Cost: cost,
		Outer: domain.Ring{
			{Lat: minLat, Lng: minLng},
			{Lat: minLat, Lng: maxLng},
			{Lat: maxLat, Lng: maxLng},
			{Lat: maxLat, Lng: minLng},
		},
	}
}

type stubZoneProvider struct {
	dataset domain.ZoneDataset
	errs    int
	calls   int
}

func (p *stubZoneProvider) Zones(ctx context.Context) (domain.ZoneDataset, error) {
	p.calls++
	if p.calls <= p.errs {
		return nil, errors.New("still loading")
	}
	return p.dataset, nil
}

func TestResolveCoverageFirstMatch(t *testing.T) {
	// Overlapping zones: the first in dataset order wins.
	dataset := domain.ZoneDataset{
		squareZone("inner", 500, 0, 0, 10, 10),
		squareZone("outer", 1500, 0, 0, 20, 20),
	}

	got := ResolveCoverage(domain.Coordinate{Lat: 5, Lng: 5}, dataset)
	if !got.InCoverage || got.Cost == nil || *got.Cost != 500 {
		t.Fatalf("unexpected result: %+v", got)
	}

	got = ResolveCoverage(domain.Coordinate{Lat: 15, Lng: 15}, dataset)
	if !got.InCoverage || got.Cost == nil || *got.Cost != 1500 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestResolveCoverageOutside(t *testing.T) {
	dataset := domain.ZoneDataset{squareZone("center", 500, 0, 0, 10, 10)}

	got := ResolveCoverage(domain.Coordinate{Lat: 50, Lng: 50}, dataset)
	if got.InCoverage {
		t.Fatalf("expected out of coverage, got %+v", got)
	}
	if got.Cost != nil {
		t.Fatalf("cost must be nil when out of coverage, got %d", *got.Cost)
	}
}

func TestResolveCoverageEmptyDataset(t *testing.T) {
	got := ResolveCoverage(domain.Coordinate{Lat: 5, Lng: 5}, nil)
	if got.InCoverage || got.Cost != nil {
		t.Fatalf("empty dataset must yield out of coverage, got %+v", got)
	}
}

func TestResolveCoverageIdempotent(t *testing.T) {
	dataset := domain.ZoneDataset{squareZone("center", 500, 0, 0, 10, 10)}
	point := domain.Coordinate{Lat: 3.3, Lng: 7.7}

	first := ResolveCoverage(point, dataset)
	for i := 0; i < 20; i++ {
		got := ResolveCoverage(point, dataset)
		if got.InCoverage != first.InCoverage {
			t.Fatal("repeated resolution disagreed")
		}
	}
}

func TestCheckPointOutcomes(t *testing.T) {
	provider := &stubZoneProvider{dataset: domain.ZoneDataset{squareZone("center", 500, 0, 0, 10, 10)}}
	svc := NewCoverageService(provider, geocode.NewMockGeocoder(nil))

	cov := svc.CheckPoint(context.Background(), domain.Coordinate{Lat: 5, Lng: 5})
	if cov.Status != StatusCovered || cov.Cost == nil || *cov.Cost != 500 {
		t.Fatalf("unexpected coverage: %+v", cov)
	}
	if !cov.Definitive() {
		t.Fatal("covered outcome must be definitive")
	}

	cov = svc.CheckPoint(context.Background(), domain.Coordinate{Lat: 50, Lng: 50})
	if cov.Status != StatusNotCovered || cov.Cost != nil {
		t.Fatalf("unexpected coverage: %+v", cov)
	}
	if !cov.Definitive() {
		t.Fatal("not-covered outcome must be definitive")
	}
}

func TestCheckPointRetriesWhileDatasetLoading(t *testing.T) {
	// The dataset becomes available on the third attempt; the check
	// must not settle on a false negative before then.
	provider := &stubZoneProvider{
		dataset: domain.ZoneDataset{squareZone("center", 500, 0, 0, 10, 10)},
		errs:    2,
	}
	svc := NewCoverageService(provider, geocode.NewMockGeocoder(nil))
	svc.delay = time.Millisecond

	cov := svc.CheckPoint(context.Background(), domain.Coordinate{Lat: 5, Lng: 5})
	if cov.Status != StatusCovered {
		t.Fatalf("expected covered after retries, got %+v", cov)
	}
	if provider.calls != 3 {
		t.Fatalf("provider calls = %d, want 3", provider.calls)
	}
}

func TestCheckPointDatasetUnavailable(t *testing.T) {
	provider := &stubZoneProvider{errs: 1000}
	svc := NewCoverageService(provider, geocode.NewMockGeocoder(nil))
	svc.attempts = 3
	svc.delay = time.Millisecond

	cov := svc.CheckPoint(context.Background(), domain.Coordinate{Lat: 5, Lng: 5})
	if cov.Status != StatusUnknown {
		t.Fatalf("expected unknown status, got %+v", cov)
	}
	if cov.Definitive() {
		t.Fatal("unknown outcome must not be definitive")
	}
	if provider.calls != 3 {
		t.Fatalf("provider calls = %d, want 3", provider.calls)
	}
}

func TestCheckAddress(t *testing.T) {
	provider := &stubZoneProvider{dataset: domain.ZoneDataset{squareZone("center", 500, 44.7, 20.3, 44.9, 20.6)}}
	geocoder := geocode.NewMockGeocoder(map[string]domain.Coordinate{
		"Terazije 1": {Lat: 44.81, Lng: 20.46},
	})
	svc := NewCoverageService(provider, geocoder)

	cov := svc.CheckAddress(context.Background(), "Terazije 1")
	if cov.Status != StatusCovered || cov.Cost == nil || *cov.Cost != 500 {
		t.Fatalf("unexpected coverage: %+v", cov)
	}

	cov = svc.CheckAddress(context.Background(), "no such street 99")
	if cov.Status != StatusAddressNotFound {
		t.Fatalf("expected address_not_found, got %+v", cov)
	}
	if cov.Definitive() {
		t.Fatal("address_not_found outcome must not be definitive")
	}
}
