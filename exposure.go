package monipoll

import (
	"math"

	orb "github.com/paulmach/orb"
)

const (
	// ContactRadiusMeters is how close two agents must be for exposure to pass.
	ContactRadiusMeters = 30.0

	// MaxContactRadiusMeters bounds the configurable contact radius so a
	// peer lookup stays within a few hundred index cells.
	MaxContactRadiusMeters = 1000.0

	// TransmissionDivisor scales a peer's degree down to the amount passed on.
	TransmissionDivisor = 4.0
)

// AgeDegree is the exposure an agent of the given age picks up inside a zone.
func AgeDegree(age int) float64 {
	switch {
	case age >= 50:
		return 20
	case age >= 30:
		return 15
	default:
		return 10
	}
}

// ExposureFromZones applies the age degree of the first zone containing the
// position. Exposure is sticky: it is never lowered, neither by a zone
// with a smaller degree nor by leaving every zone.
func ExposureFromZones(position orb.Point, age int, current float64, zones []HazardZone) float64 {
	for _, z := range zones {
		if z.Contains(position) {
			return clampExposure(math.Max(current, AgeDegree(age)))
		}
	}
	return current
}

// ExposureFromPeers raises degree to a quarter of the highest degree found
// among peers within radius meters of self. Exposure is never lowered.
func ExposureFromPeers(self orb.Point, degree float64, peers []Agent, radius float64) float64 {
	for _, p := range peers {
		if !p.Placed {
			continue
		}
		if DistanceMeters(self, p.Position) > radius {
			continue
		}
		if c := p.ExposureDegree / TransmissionDivisor; c > degree {
			degree = c
		}
	}
	return clampExposure(degree)
}

// Expose computes the next degree of every agent. All reads come from the
// given slice and results are written to a new one, so no agent ever sees a
// peer that was already updated in the same pass.
func Expose(agents []Agent, zones []HazardZone, radius float64) []Agent {
	index := NewPeerIndex(agents)
	next := make([]Agent, len(agents))
	peers := make([]Agent, 0, 16)

	for i, a := range agents {
		next[i] = a
		if !a.Placed {
			continue
		}
		degree := ExposureFromZones(a.Position, a.Age, a.ExposureDegree, zones)

		peers = peers[:0]
		for _, j := range index.Near(a.Position, radius) {
			if j != i {
				peers = append(peers, agents[j])
			}
		}
		next[i].ExposureDegree = ExposureFromPeers(a.Position, degree, peers, radius)
	}
	return next
}
