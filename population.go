package monipoll

import "math/rand"

// DefaultNightPopulation is the pool size outside commuting hours at night.
const DefaultNightPopulation = 90

// PopulationScheduler sizes the agent pool by hour of day.
type PopulationScheduler struct {
	Floor int
	rng   *rand.Rand
}

// NewPopulationScheduler returns a scheduler with the given night floor.
// A negative floor falls back to DefaultNightPopulation.
func NewPopulationScheduler(floor int, rng *rand.Rand) *PopulationScheduler {
	if floor < 0 {
		floor = DefaultNightPopulation
	}
	return &PopulationScheduler{Floor: floor, rng: rng}
}

// PeakHour reports whether hour falls in a commuting band, 7-11 or 16-20.
func PeakHour(hour int) bool {
	return (hour >= 7 && hour <= 11) || (hour >= 16 && hour <= 20)
}

// EffectiveCount returns the pool size for target at hour. Off-peak hours
// draw a fresh value in [Floor, target] on every call. The result never
// exceeds target.
func (s *PopulationScheduler) EffectiveCount(target, hour int) int {
	if target < 0 {
		target = 0
	}
	var n int
	switch {
	case PeakHour(hour):
		n = target
	case hour >= 0 && hour <= 6:
		n = s.Floor
	case target < s.Floor:
		n = target
	default:
		n = s.Floor + s.rng.Intn(target-s.Floor+1)
	}
	if n < 0 {
		n = 0
	}
	if n > target {
		n = target
	}
	return n
}

// Resize keeps the leading agents and spawns or truncates to reach the count
// for the hour. New agents take sequential IDs starting at nextID; the next
// unused ID is returned. Spawn failures leave the new agent unplaced and are
// reported once.
func (s *PopulationScheduler) Resize(agents []Agent, target, hour int, nextID int, m *MovementEngine) ([]Agent, int, error) {
	n := s.EffectiveCount(target, hour)
	keep := len(agents)
	if keep > n {
		keep = n
	}

	next := make([]Agent, keep, n)
	copy(next, agents[:keep])

	var firstErr error
	for len(next) < n {
		a, err := m.Spawn(nextID)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		next = append(next, a)
		nextID++
	}
	return next, nextID, firstErr
}
