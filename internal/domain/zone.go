package domain

// Ring is a closed sequence of vertices forming a simple polygon ring.
// The closing edge from the last vertex back to the first is implicit.
type Ring []Coordinate

// contains reports whether p lies inside the ring using the even-odd
// ray-casting rule. Coordinates are treated as planar, which is
// acceptable at city scale. Points exactly on an edge classify either
// way, but the result is deterministic for identical inputs.
func (r Ring) contains(p Coordinate) bool {
	if len(r) < 3 {
		return false
	}

	inside := false
	for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) &&
			p.Lng < (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
	}

	return inside
}

// Zone is one delivery area: an outer polygon ring, optional hole
// rings, and a flat shipping cost for any point inside it.
type Zone struct {
	Name          string
	Cost          int
	Outer         Ring
	Holes         []Ring
	LabelPosition *Coordinate
}

// Contains reports whether p lies inside the zone: inside the outer
// ring and outside every hole.
func (z Zone) Contains(p Coordinate) bool {
	if !z.Outer.contains(p) {
		return false
	}

	for _, h := range z.Holes {
		if h.contains(p) {
			return false
		}
	}

	return true
}

// ZoneDataset is an immutable ordered sequence of zones, loaded once
// and shared read-only for the process lifetime. When zones overlap,
// the first zone in dataset order wins.
type ZoneDataset []Zone

// CoverageResult is the outcome of a containment query.
// Cost is nil exactly when InCoverage is false.
type CoverageResult struct {
	InCoverage bool
	Cost       *int
}
