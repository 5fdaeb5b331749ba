package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bakery-order-service/internal/domain"
	"bakery-order-service/internal/platform/metrics"
	"bakery-order-service/internal/ports"
)

// ResolveCoverage determines which delivery zone, if any, contains the
// point. Zones are scanned in dataset order and the first containing
// zone wins; with an empty dataset every point is out of coverage.
// The scan is pure and deterministic: identical inputs always yield
// identical results.
func ResolveCoverage(point domain.Coordinate, dataset domain.ZoneDataset) domain.CoverageResult {
	for _, zone := range dataset {
		if zone.Contains(point) {
			cost := zone.Cost
			return domain.CoverageResult{InCoverage: true, Cost: &cost}
		}
	}

	return domain.CoverageResult{InCoverage: false}
}

// CoverageStatus is the tri-state outcome of a coverage check.
// Out-of-coverage is a legitimate business outcome; unknown means the
// zone dataset could not be loaded and the check should be retried
// later; address-not-found means no usable coordinate was resolved.
type CoverageStatus string

const (
	StatusCovered         CoverageStatus = "covered"
	StatusNotCovered      CoverageStatus = "not_covered"
	StatusUnknown         CoverageStatus = "unknown"
	StatusAddressNotFound CoverageStatus = "address_not_found"
)

// Coverage is the full outcome of a coverage check. Cost is set only
// when Status is covered; Point is set whenever a coordinate was
// resolved.
type Coverage struct {
	Status CoverageStatus
	Cost   *int
	Point  *domain.Coordinate
}

// Definitive reports whether the check reached a business outcome
// worth attaching to a cart, as opposed to a transient failure.
func (c Coverage) Definitive() bool {
	return c.Status == StatusCovered || c.Status == StatusNotCovered
}

// Result converts a definitive coverage into the domain result form.
func (c Coverage) Result() domain.CoverageResult {
	return domain.CoverageResult{InCoverage: c.Status == StatusCovered, Cost: c.Cost}
}

// CoverageService orchestrates geocoding, dataset access and
// containment for every surface that needs a coverage answer (coverage
// endpoint, cart attachment, order gating). Centralizing it here keeps
// the containment logic from being duplicated per caller.
type CoverageService struct {
	zones    ports.ZoneProvider
	geocoder ports.Geocoder

	// Bounded retry for a dataset that is still loading or briefly
	// unavailable; without it every check during startup would report a
	// false "not covered".
	attempts int
	delay    time.Duration
}

func NewCoverageService(zones ports.ZoneProvider, geocoder ports.Geocoder) *CoverageService {
	return &CoverageService{
		zones:    zones,
		geocoder: geocoder,
		attempts: 15,
		delay:    400 * time.Millisecond,
	}
}

// CheckPoint resolves coverage for an already-known coordinate, the
// structured-selection path where no geocoding is needed.
func (s *CoverageService) CheckPoint(ctx context.Context, point domain.Coordinate) Coverage {
	dataset, err := s.datasetWithRetry(ctx)
	if err != nil {
		slog.Warn("zone dataset unavailable", "err", err)
		metrics.RecordCoverageCheck(string(StatusUnknown))
		return Coverage{Status: StatusUnknown, Point: &point}
	}

	result := ResolveCoverage(point, dataset)

	cov := Coverage{Status: StatusNotCovered, Point: &point}
	if result.InCoverage {
		cov.Status = StatusCovered
		cov.Cost = result.Cost
	}

	metrics.RecordCoverageCheck(string(cov.Status))
	return cov
}

// CheckAddress resolves coverage for free text. Geocoding failures of
// any kind surface as an address-not-found outcome rather than an
// error: the caller prompts for a better address, it never sees an
// exception.
func (s *CoverageService) CheckAddress(ctx context.Context, text string) Coverage {
	point, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		if !errors.Is(err, ports.ErrNoResult) {
			slog.Warn("geocode failed", "err", err)
		}
		metrics.RecordCoverageCheck(string(StatusAddressNotFound))
		return Coverage{Status: StatusAddressNotFound}
	}

	return s.CheckPoint(ctx, point)
}

// datasetWithRetry polls the zone provider with a fixed short delay
// until it yields a dataset or the attempts are exhausted.
func (s *CoverageService) datasetWithRetry(ctx context.Context) (domain.ZoneDataset, error) {
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		dataset, err := s.zones.Zones(ctx)
		if err == nil {
			return dataset, nil
		}
		lastErr = err

		if attempt == s.attempts {
			break
		}

		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("coverage: dataset unavailable after %d attempts: %w", s.attempts, lastErr)
}
