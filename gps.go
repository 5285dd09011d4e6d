package streetnet

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadiusKm = 6370.986884258304
	pi180         = math.Pi / 180.0
	pi180Rev      = 180.0 / math.Pi

	// Meters covered by one degree of latitude.
	metersPerDegree = earthRadiusKm * 1000.0 * pi180
)

// GPSBounds is the geographic rectangle establishing the planar projection
// used by all projected points in a Document and StreetNetwork. Once set on a
// Document it never changes.
type GPSBounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

func NewGPSBounds(minLon, minLat, maxLon, maxLat float64) GPSBounds {
	return GPSBounds{
		MinLon: minLon,
		MinLat: minLat,
		MaxLon: maxLon,
		MaxLat: maxLat,
	}
}

// GPSBoundsFromPoints computes the bounding rectangle of the given lon/lat
// points.
func GPSBoundsFromPoints(pts []orb.Point) GPSBounds {
	bounds := GPSBounds{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
	for _, pt := range pts {
		bounds.MinLon = math.Min(bounds.MinLon, pt.Lon())
		bounds.MinLat = math.Min(bounds.MinLat, pt.Lat())
		bounds.MaxLon = math.Max(bounds.MaxLon, pt.Lon())
		bounds.MaxLat = math.Max(bounds.MaxLat, pt.Lat())
	}
	return bounds
}

func (bounds GPSBounds) IsZero() bool {
	return bounds == GPSBounds{}
}

func (bounds GPSBounds) String() string {
	return fmt.Sprintf("GPSBounds [%f, %f] - [%f, %f]", bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat)
}

// Contains reports whether the lon/lat point lies inside the rectangle.
func (bounds GPSBounds) Contains(pt orb.Point) bool {
	return pt.Lon() >= bounds.MinLon && pt.Lon() <= bounds.MaxLon &&
		pt.Lat() >= bounds.MinLat && pt.Lat() <= bounds.MaxLat
}

// OnBoundary reports whether the lon/lat point sits on the rectangle edge,
// within a small tolerance. Ways clipped by an extract end on the boundary.
func (bounds GPSBounds) OnBoundary(pt orb.Point) bool {
	const eps = 1e-7
	return math.Abs(pt.Lon()-bounds.MinLon) < eps ||
		math.Abs(pt.Lon()-bounds.MaxLon) < eps ||
		math.Abs(pt.Lat()-bounds.MinLat) < eps ||
		math.Abs(pt.Lat()-bounds.MaxLat) < eps
}

// Project converts a lon/lat point to planar coordinates in meters, using an
// equirectangular projection anchored at the south-west corner. Good enough at
// city scale, which is the scale of an OSM extract.
func (bounds GPSBounds) Project(pt orb.Point) orb.Point {
	lonScale := math.Cos(degreesToRadians((bounds.MinLat + bounds.MaxLat) / 2.0))
	return orb.Point{
		(pt.Lon() - bounds.MinLon) * metersPerDegree * lonScale,
		(pt.Lat() - bounds.MinLat) * metersPerDegree,
	}
}

// Unproject is the inverse of Project.
func (bounds GPSBounds) Unproject(pt orb.Point) orb.Point {
	lonScale := math.Cos(degreesToRadians((bounds.MinLat + bounds.MaxLat) / 2.0))
	return orb.Point{
		bounds.MinLon + pt.X()/(metersPerDegree*lonScale),
		bounds.MinLat + pt.Y()/metersPerDegree,
	}
}

// ProjectLine converts a lon/lat linestring to planar meters.
func (bounds GPSBounds) ProjectLine(line orb.LineString) orb.LineString {
	projected := make(orb.LineString, len(line))
	for i := range line {
		projected[i] = bounds.Project(line[i])
	}
	return projected
}

// UnprojectLine is the inverse of ProjectLine.
func (bounds GPSBounds) UnprojectLine(line orb.LineString) orb.LineString {
	unprojected := make(orb.LineString, len(line))
	for i := range line {
		unprojected[i] = bounds.Unproject(line[i])
	}
	return unprojected
}

func degreesToRadians(d float64) float64 {
	return d * pi180
}

func radiansToDegrees(r float64) float64 {
	return r * pi180Rev
}
