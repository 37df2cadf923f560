package monipoll

import (
	"fmt"

	orb "github.com/paulmach/orb"
)

const (
	// MinAge and MaxAge bound the age given to an agent at spawn.
	MinAge = 14
	MaxAge = 60

	// MaxExposure is the upper bound of an exposure degree.
	MaxExposure = 100.0
)

// An Agent is one simulated person walking the route network.
// Position and Destination are only meaningful when Placed is true.
type Agent struct {
	ID             int
	Position       orb.Point
	Destination    orb.Point
	Placed         bool
	Speed          float64 // kilometers per movement tick
	Age            int
	ExposureDegree float64
}

// Key is the display identifier of the agent.
func (a Agent) Key() string {
	return fmt.Sprintf("person-%d", a.ID)
}

// Infected reports whether the agent has any exposure at all.
func (a Agent) Infected() bool {
	return a.ExposureDegree > 0
}

func (a Agent) String() string {
	if !a.Placed {
		return fmt.Sprintf("%s age=%d exposure=%.1f unassigned", a.Key(), a.Age, a.ExposureDegree)
	}
	return fmt.Sprintf("%s age=%d exposure=%.1f at %v -> %v", a.Key(), a.Age, a.ExposureDegree, a.Position, a.Destination)
}

func clampExposure(d float64) float64 {
	if d < 0 || d != d {
		return 0
	}
	if d > MaxExposure {
		return MaxExposure
	}
	return d
}

// Count partitions agents into infected and uninfected.
func Count(agents []Agent) (infected, uninfected int) {
	for _, a := range agents {
		if a.Infected() {
			infected++
		} else {
			uninfected++
		}
	}
	return infected, uninfected
}
