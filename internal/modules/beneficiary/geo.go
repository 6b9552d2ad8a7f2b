package beneficiary

import (
	"math"
	"sort"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3959.0

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ValidateCoordinate rejects latitudes outside [-90, 90] and longitudes outside [-180, 180].
func ValidateCoordinate(c Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// DistanceMiles returns the great-circle distance between a and b using the
// spherical law of cosines. Identical points are exactly 0 apart.
func DistanceMiles(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon) - radians(a.Lon)

	x := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon) + math.Sin(lat1)*math.Sin(lat2)
	// Rounding can push x just past 1 for nearly coincident points.
	x = math.Max(-1, math.Min(1, x))
	return EarthRadiusMiles * math.Acos(x)
}

// Rank keeps the located candidates within radiusMiles of origin, sorted by
// ascending distance and truncated to limit. Candidates without a location are skipped.
func Rank(origin Coordinate, candidates []Profile, radiusMiles float64, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, p := range candidates {
		c, err := p.Coordinate()
		if err != nil {
			continue
		}
		d := DistanceMiles(origin, c)
		if d <= radiusMiles {
			matches = append(matches, Match{Profile: p, DistanceMiles: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceMiles < matches[j].DistanceMiles
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// BoundingBox is a latitude/longitude window. A nil longitude range means every longitude.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon *float64
}

// BoxAround returns a window containing every point within radiusMiles of c.
// It is a coarse prefilter; exact distances are computed by Rank.
func BoxAround(c Coordinate, radiusMiles float64) BoundingBox {
	const margin = 1e-6
	angular := radiusMiles / EarthRadiusMiles
	dLat := degrees(angular) + margin

	box := BoundingBox{
		MinLat: math.Max(-90, c.Lat-dLat),
		MaxLat: math.Min(90, c.Lat+dLat),
	}
	if box.MinLat == -90 || box.MaxLat == 90 {
		return box
	}

	s := math.Sin(angular) / math.Cos(radians(c.Lat))
	if s >= 1 {
		return box
	}
	dLon := degrees(math.Asin(s)) + margin
	minLon, maxLon := c.Lon-dLon, c.Lon+dLon
	if minLon < -180 || maxLon > 180 {
		// The window wraps the antimeridian; skip the longitude filter.
		return box
	}
	box.MinLon, box.MaxLon = &minLon, &maxLon
	return box
}

// RoundMiles rounds a distance to two decimals for display.
func RoundMiles(d float64) float64 {
	return math.Round(d*100) / 100
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
