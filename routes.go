package monipoll

import (
	"fmt"
	"math/rand"
	"os"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteNetwork is the read-only set of walkable routes. Only the first and
// last point of a route are used when an agent is sent along it.
type RouteNetwork struct {
	routes []orb.LineString
}

// NewRouteNetwork keeps every non-empty line as a route.
func NewRouteNetwork(lines []orb.LineString) *RouteNetwork {
	n := &RouteNetwork{}
	for _, l := range lines {
		if len(l) == 0 {
			continue
		}
		n.routes = append(n.routes, l)
	}
	return n
}

// LoadRoutes reads a GeoJSON file of line features.
func LoadRoutes(path string) (*RouteNetwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading routes file: %w", err)
	}
	n, err := ParseRoutes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing routes %s: %w", path, err)
	}
	return n, nil
}

// ParseRoutes accepts a FeatureCollection, a single Feature or a bare
// geometry. LineStrings and the lines of MultiLineStrings become routes,
// everything else (the nodes osm exports carry along) is ignored. A
// collection without lines is a valid, empty network.
func ParseRoutes(data []byte) (*RouteNetwork, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && fc.Type == "FeatureCollection" {
		var lines []orb.LineString
		for _, f := range fc.Features {
			lines = appendLines(lines, f.Geometry)
		}
		return NewRouteNetwork(lines), nil
	}

	f, err := geojson.UnmarshalFeature(data)
	if err == nil && f.Geometry != nil {
		return NewRouteNetwork(appendLines(nil, f.Geometry)), nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal routes: %w", err)
	}
	return NewRouteNetwork(appendLines(nil, g.Geometry())), nil
}

func appendLines(lines []orb.LineString, g orb.Geometry) []orb.LineString {
	switch v := g.(type) {
	case orb.LineString:
		lines = append(lines, v)
	case orb.MultiLineString:
		lines = append(lines, v...)
	case orb.Collection:
		for _, c := range v {
			lines = appendLines(lines, c)
		}
	}
	return lines
}

// Len returns the number of routes.
func (n *RouteNetwork) Len() int {
	if n == nil {
		return 0
	}
	return len(n.routes)
}

// Bound returns the bounding box of all routes.
func (n *RouteNetwork) Bound() orb.Bound {
	if n.Len() == 0 {
		return orb.Bound{}
	}
	b := n.routes[0].Bound()
	for _, r := range n.routes[1:] {
		b = b.Union(r.Bound())
	}
	return b
}

// Pick chooses a route uniformly at random and returns its end points.
func (n *RouteNetwork) Pick(rng *rand.Rand) (start, end orb.Point, err error) {
	if n.Len() == 0 {
		return orb.Point{}, orb.Point{}, ErrEmptyRouteNetwork
	}
	r := n.routes[rng.Intn(len(n.routes))]
	return r[0], r[len(r)-1], nil
}
