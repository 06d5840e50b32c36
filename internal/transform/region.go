package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"ship-tracker-backend/config"
)

// Region is a named area that can label a coordinate. This is a fixed lookup
// list, not a geocoder.
type Region interface {
	Name() string
	Contains(ll s2.LatLng) bool
}

// boxRegion is a closed latitude/longitude rectangle.
type boxRegion struct {
	name string
	rect s2.Rect
}

// NewBoxRegion builds a region from inclusive degree bounds.
func NewBoxRegion(name string, minLat, maxLat, minLng, maxLng float64) Region {
	lo := s2.LatLngFromDegrees(minLat, minLng)
	hi := s2.LatLngFromDegrees(maxLat, maxLng)
	return &boxRegion{
		name: name,
		rect: s2.Rect{
			Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()},
			Lng: s1.Interval{Lo: lo.Lng.Radians(), Hi: hi.Lng.Radians()},
		},
	}
}

func (r *boxRegion) Name() string { return r.name }

func (r *boxRegion) Contains(ll s2.LatLng) bool { return r.rect.ContainsLatLng(ll) }

// polygonRegion is a simple polygon on the sphere.
type polygonRegion struct {
	name string
	loop *s2.Loop
}

// NewPolygonRegion builds a region from [lat, lng] vertices in degrees. The
// vertex order does not matter; the smaller of the two enclosed areas is used.
func NewPolygonRegion(name string, vertices [][2]float64) (Region, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("region %q: polygon needs at least 3 vertices, got %d", name, len(vertices))
	}
	points := make([]s2.Point, len(vertices))
	for i, v := range vertices {
		points[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(v[0], v[1]))
	}
	loop := s2.LoopFromPoints(points)
	if loop.Area() > 2*math.Pi {
		loop.Invert()
	}
	return &polygonRegion{name: name, loop: loop}, nil
}

func (r *polygonRegion) Name() string { return r.name }

func (r *polygonRegion) Contains(ll s2.LatLng) bool {
	return r.loop.ContainsPoint(s2.PointFromLatLng(ll))
}

// DefaultRegions are the two built-in areas covered by the ingestion feed.
func DefaultRegions() []Region {
	return []Region{
		NewBoxRegion("Singapore Waters", 1.0, 1.6, 103.0, 104.5),
		NewBoxRegion("Japanese Waters", 24.0, 46.0, 122.0, 146.0),
	}
}

// RegionsFromConfig builds the ordered region list; an empty config yields
// DefaultRegions.
func RegionsFromConfig(cfgs []config.RegionConfig) ([]Region, error) {
	if len(cfgs) == 0 {
		return DefaultRegions(), nil
	}
	regions := make([]Region, 0, len(cfgs))
	for _, c := range cfgs {
		if c.Name == "" {
			return nil, fmt.Errorf("region without a name")
		}
		if len(c.Polygon) > 0 {
			r, err := NewPolygonRegion(c.Name, c.Polygon)
			if err != nil {
				return nil, err
			}
			regions = append(regions, r)
			continue
		}
		if c.MinLat > c.MaxLat {
			return nil, fmt.Errorf("region %q: min_lat %.4f is above max_lat %.4f", c.Name, c.MinLat, c.MaxLat)
		}
		regions = append(regions, NewBoxRegion(c.Name, c.MinLat, c.MaxLat, c.MinLng, c.MaxLng))
	}
	return regions, nil
}

// Locator names coordinates from an ordered region list, falling back to a
// formatted coordinate string.
type Locator struct {
	regions []Region
}

// NewLocator creates a Locator. A nil list uses DefaultRegions.
func NewLocator(regions []Region) *Locator {
	if regions == nil {
		regions = DefaultRegions()
	}
	return &Locator{regions: regions}
}

// Name returns the first region containing (lat, lng) or the formatted coordinates.
func (l *Locator) Name(lat, lng float64) string {
	ll := s2.LatLngFromDegrees(lat, lng)
	for _, r := range l.regions {
		if r.Contains(ll) {
			return r.Name()
		}
	}
	return FormatCoordinates(lat, lng)
}

// FormatCoordinates renders "1.2345°N, 103.8000°E" with four decimals.
func FormatCoordinates(lat, lng float64) string {
	ns := "N"
	if lat < 0 {
		ns = "S"
	}
	ew := "E"
	if lng < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", math.Abs(lat), ns, math.Abs(lng), ew)
}
