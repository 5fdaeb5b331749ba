package domain

import (
	"errors"
	"fmt"
)

// Format is a package size variant. Volume tiers are computed
// independently per format.
type Format string

const (
	Format12oz Format = "12oz"
	Format9oz  Format = "9oz"
)

// ParseFormat validates a wire-level format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Format12oz:
		return Format12oz, nil
	case Format9oz:
		return Format9oz, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Tier maps a contiguous quantity range [MinUnits, MaxUnitsExclusive)
// to a fixed per-unit price in the smallest currency unit.
// MaxUnitsExclusive of 0 marks the open-ended last tier.
type Tier struct {
	MinUnits          int `json:"min_units"`
	MaxUnitsExclusive int `json:"max_units_exclusive"`
	UnitPrice         int `json:"unit_price"`
}

// open reports whether the tier has no upper bound.
func (t Tier) open() bool { return t.MaxUnitsExclusive == 0 }

// matches reports whether units falls inside the tier's range.
func (t Tier) matches(units int) bool {
	return units >= t.MinUnits && (t.open() || units < t.MaxUnitsExclusive)
}

// TierTable holds the ordered tier schedule per format.
type TierTable map[Format][]Tier

// Validate checks each format's schedule for contiguity: the first
// tier starts at zero, every tier's MinUnits equals the previous
// tier's MaxUnitsExclusive, only the last tier is open-ended, and all
// prices are non-negative. Validation runs once at startup so gaps or
// overlaps in configured price tables fail fast.
func (tt TierTable) Validate() error {
	if len(tt) == 0 {
		return errors.New("tier table: no formats configured")
	}

	for format, tiers := range tt {
		if len(tiers) == 0 {
			return fmt.Errorf("tier table: format %q has no tiers", format)
		}

		if tiers[0].MinUnits != 0 {
			return fmt.Errorf("tier table: format %q first tier starts at %d, want 0", format, tiers[0].MinUnits)
		}

		for i, t := range tiers {
			if t.UnitPrice < 0 {
				return fmt.Errorf("tier table: format %q tier %d has negative unit price %d", format, i, t.UnitPrice)
			}

			last := i == len(tiers)-1
			if last {
				if !t.open() {
					return fmt.Errorf("tier table: format %q last tier must be open-ended", format)
				}
				continue
			}

			if t.open() {
				return fmt.Errorf("tier table: format %q tier %d is open-ended but not last", format, i)
			}
			if t.MaxUnitsExclusive <= t.MinUnits {
				return fmt.Errorf("tier table: format %q tier %d has empty range [%d, %d)", format, i, t.MinUnits, t.MaxUnitsExclusive)
			}
			if tiers[i+1].MinUnits != t.MaxUnitsExclusive {
				return fmt.Errorf(
					"tier table: format %q tiers %d and %d are not contiguous (%d != %d)",
					format, i, i+1, tiers[i+1].MinUnits, t.MaxUnitsExclusive,
				)
			}
		}
	}

	return nil
}

// UnitPrice returns the per-unit price for the tier containing units.
func (tt TierTable) UnitPrice(format Format, units int) (int, error) {
	tiers, ok := tt[format]
	if !ok {
		return 0, fmt.Errorf("tier table: no tiers for format %q", format)
	}

	if units < 0 {
		return 0, fmt.Errorf("tier table: negative unit count %d", units)
	}

	for _, t := range tiers {
		if t.matches(units) {
			return t.UnitPrice, nil
		}
	}

	return 0, fmt.Errorf("tier table: no tier for format %q units %d", format, units)
}

// DefaultTierTable returns the compiled-in price schedule, used when no
// external tier file is configured.
func DefaultTierTable() TierTable {
	return TierTable{
		Format12oz: {
			{MinUnits: 0, MaxUnitsExclusive: 15, UnitPrice: 1100},
			{MinUnits: 15, MaxUnitsExclusive: 20, UnitPrice: 1000},
			{MinUnits: 20, MaxUnitsExclusive: 0, UnitPrice: 900},
		},
		Format9oz: {
			{MinUnits: 0, MaxUnitsExclusive: 10, UnitPrice: 800},
			{MinUnits: 10, MaxUnitsExclusive: 20, UnitPrice: 720},
			{MinUnits: 20, MaxUnitsExclusive: 0, UnitPrice: 650},
		},
	}
}
