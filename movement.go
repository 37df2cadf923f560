package monipoll

import (
	"math/rand"
)

// DefaultSpeedKm is how far an agent walks per movement tick.
const DefaultSpeedKm = 0.002

// MovementEngine walks agents toward their destinations and sends them down
// a new route once they arrive.
type MovementEngine struct {
	routes *RouteNetwork
	speed  float64
	rng    *rand.Rand
}

// NewMovementEngine uses rng for every route and age choice so runs can be
// replayed. A speed <= 0 falls back to DefaultSpeedKm.
func NewMovementEngine(routes *RouteNetwork, speed float64, rng *rand.Rand) *MovementEngine {
	if speed <= 0 {
		speed = DefaultSpeedKm
	}
	return &MovementEngine{routes: routes, speed: speed, rng: rng}
}

// Assign places the agent at the start of a random route, heading for its end.
// On failure the agent is returned unchanged.
func (m *MovementEngine) Assign(a Agent) (Agent, error) {
	start, end, err := m.routes.Pick(m.rng)
	if err != nil {
		return a, err
	}
	a.Position = start
	a.Destination = end
	a.Placed = true
	a.Speed = m.speed
	return a, nil
}

// Spawn creates a new agent with a random age and no exposure and assigns it
// a route. When no route is available the agent is still returned, unplaced,
// together with the error.
func (m *MovementEngine) Spawn(id int) (Agent, error) {
	a := Agent{
		ID:    id,
		Age:   MinAge + m.rng.Intn(MaxAge-MinAge+1),
		Speed: m.speed,
	}
	return m.Assign(a)
}

// Advance moves the agent one step along the great circle to its destination.
// An agent within one step of its destination, or without a route, is
// reassigned instead; it never overshoots.
func (m *MovementEngine) Advance(a Agent) (next Agent, arrived bool, err error) {
	if !a.Placed {
		next, err = m.Assign(a)
		return next, true, err
	}

	if DistanceKm(a.Position, a.Destination) > a.Speed {
		a.Position = Destination(a.Position, a.Speed, Bearing(a.Position, a.Destination))
		return a, false, nil
	}

	next, err = m.Assign(a)
	return next, true, err
}

// TickReport summarises one movement pass.
type TickReport struct {
	Moved      int
	Reassigned int
	Unassigned int

	// Warnings holds the distinct recoverable errors seen during the pass.
	Warnings []error
}

func (r *TickReport) warn(err error) {
	for _, w := range r.Warnings {
		if w == err {
			return
		}
	}
	r.Warnings = append(r.Warnings, err)
}

// Step advances every agent and returns the new pool. The input is not modified.
func (m *MovementEngine) Step(agents []Agent) ([]Agent, TickReport) {
	var report TickReport
	next := make([]Agent, len(agents))
	for i, a := range agents {
		n, arrived, err := m.Advance(a)
		next[i] = n
		switch {
		case err != nil:
			report.Unassigned++
			report.warn(err)
		case arrived:
			report.Reassigned++
		default:
			report.Moved++
		}
	}
	return next, report
}
