package monipoll

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	orb "github.com/paulmach/orb"
)

// Category is the kind of hazard a zone represents. It only matters for display.
type Category string

// The categories a zone can be created with
const (
	Radiation       Category = "Radiation"
	Ammonia         Category = "Ammonia"
	Virus           Category = "Virus"
	HydrogenSulfide Category = "Hydrogen sulfide"
)

// Categories lists every known category in editor order.
var Categories = []Category{Radiation, Ammonia, Virus, HydrogenSulfide}

// ParseCategory matches s case-insensitively against the known categories.
// An empty string selects Radiation, the first option of the zone editor.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Radiation, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	if strings.EqualFold(strings.ReplaceAll(s, "-", " "), string(HydrogenSulfide)) {
		return HydrogenSulfide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ZoneRequest is what the zone editor submits.
type ZoneRequest struct {
	Lat            float64 `json:"lat" yaml:"lat"`
	Lng            float64 `json:"lng" yaml:"lng"`
	RadiusMeters   float64 `json:"radiusMeters" yaml:"radius_m"`
	ActivationTime float64 `json:"activationTime" yaml:"activation_time"`
	Category       string  `json:"category" yaml:"category"`
}

// HazardZone is a stationary circle that exposes agents inside it.
// Zones never change once created. ActivationTime is carried for the
// editor and never interpreted here.
type HazardZone struct {
	ID             uuid.UUID `json:"id"`
	Center         orb.Point `json:"center"`
	RadiusMeters   float64   `json:"radiusMeters"`
	ActivationTime float64   `json:"activationTime"`
	Category       Category  `json:"category"`
}

// NewHazardZone validates the request and builds a zone with a fresh ID.
func NewHazardZone(req ZoneRequest) (HazardZone, error) {
	if req.RadiusMeters < 0 || math.IsNaN(req.RadiusMeters) || math.IsInf(req.RadiusMeters, 0) {
		return HazardZone{}, fmt.Errorf("%w: got %v", ErrInvalidZoneRadius, req.RadiusMeters)
	}
	cat, err := ParseCategory(req.Category)
	if err != nil {
		return HazardZone{}, err
	}
	return HazardZone{
		ID:             uuid.New(),
		Center:         LatLng(req.Lat, req.Lng),
		RadiusMeters:   req.RadiusMeters,
		ActivationTime: req.ActivationTime,
		Category:       cat,
	}, nil
}

// Contains reports whether p lies within the zone, boundary included.
func (z HazardZone) Contains(p orb.Point) bool {
	return DistanceMeters(p, z.Center) <= z.RadiusMeters
}

// Ring approximates the zone outline with the given number of segments.
func (z HazardZone) Ring(segments int) orb.Ring {
	if segments < 3 {
		segments = 3
	}
	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := float64(i) * 360 / float64(segments)
		ring = append(ring, Destination(z.Center, z.RadiusMeters/1000, bearing))
	}
	return append(ring, ring[0])
}
