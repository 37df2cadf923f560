package monipoll

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Simulation owns the agent pool, the zones and the clock. Every exported
// method takes the lock, so the clock loop, the movement loop and external
// controls never interleave within a tick.
type Simulation struct {
	mu sync.Mutex

	cfg       Config
	clock     *Clock
	movement  *MovementEngine
	scheduler *PopulationScheduler
	log       log.FieldLogger

	target int
	agents []Agent
	nextID int
	zones  []HazardZone
}

// NewSimulation builds a stopped simulation at the configured start time,
// with the initial zones of cfg and a pool sized for the start hour.
// A nil logger uses the logrus standard logger.
func NewSimulation(cfg Config, routes *RouteNetwork, logger log.FieldLogger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		cfg:       cfg,
		clock:     NewClock(cfg.StartTime, cfg.DurationDays, cfg.SimStep),
		movement:  NewMovementEngine(routes, cfg.SpeedKm, rng),
		scheduler: NewPopulationScheduler(cfg.NightPopulation, rng),
		log:       logger,
		target:    cfg.TargetPopulation,
	}
	for _, req := range cfg.Zones {
		z, err := NewHazardZone(req)
		if err != nil {
			return nil, err
		}
		s.zones = append(s.zones, z)
	}
	s.log.WithFields(log.Fields{
		"routes": routes.Len(),
		"zones":  len(s.zones),
		"seed":   seed,
	}).Info("Simulation created")

	s.reschedule()
	return s, nil
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Start resumes the simulation from the current snapshot.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRunning(true)
}

// Stop pauses both the clock and movement. No agent state is dropped.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRunning(false)
}

// Toggle flips between running and stopped and returns the new state.
func (s *Simulation) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRunning(!s.clock.Running())
	return s.clock.Running()
}

func (s *Simulation) setRunning(running bool) {
	if s.clock.Running() == running {
		return
	}
	s.clock.SetRunning(running)
	s.log.WithFields(log.Fields{
		"running": running,
		"time":    s.clock.Now(),
	}).Info("Simulation toggled")
}

// Running reports whether the clock is running.
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Running()
}

// SetTargetPopulation sets the operator's population target and resizes the
// pool. A negative n is coerced to 0 and ErrInvalidAgentCount is returned as
// a warning; the simulation carries on either way.
func (s *Simulation) SetTargetPopulation(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var warn error
	if n < 0 {
		warn = fmt.Errorf("%w: %d coerced to 0", ErrInvalidAgentCount, n)
		s.log.WithError(warn).Warn("Target population coerced")
		n = 0
	}
	s.target = n
	s.reschedule()
	return warn
}

// ParseAgentCount reads a target population typed by an operator. Anything
// that is not a non-negative integer yields 0 and ErrInvalidAgentCount.
func ParseAgentCount(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAgentCount, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d coerced to 0", ErrInvalidAgentCount, n)
	}
	return n, nil
}

// SetSimulationDurationDays sets how many simulated days a run lasts.
// A negative value is coerced to 0 with ErrInvalidDuration as a warning.
func (s *Simulation) SetSimulationDurationDays(days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var warn error
	if days < 0 {
		warn = fmt.Errorf("%w: %d days coerced to 0", ErrInvalidDuration, days)
		s.log.WithError(warn).Warn("Simulation duration coerced")
		days = 0
	}
	s.clock.SetDays(days)
	return warn
}

// SetSimulatedTime moves the clock to t and resizes the pool for its hour.
func (s *Simulation) SetSimulatedTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Set(t)
	s.reschedule()
}

// Reset stops the simulation and restores the configured start time,
// duration and target population. The zone list is emptied and the agent
// pool is rebuilt from scratch.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Reset(s.cfg.DurationDays)
	s.target = s.cfg.TargetPopulation
	s.zones = nil
	s.agents = nil
	s.nextID = 0
	s.reschedule()
	s.log.WithField("time", s.clock.Now()).Info("Simulation reset")
}

// AddZone validates and appends a zone. Rejected zones leave the set untouched.
func (s *Simulation) AddZone(req ZoneRequest) (HazardZone, error) {
	z, err := NewHazardZone(req)
	if err != nil {
		s.log.WithError(err).WithField("request", req).Warn("Zone rejected")
		return HazardZone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// copy on append so snapshots handed out earlier stay valid
	zones := make([]HazardZone, len(s.zones), len(s.zones)+1)
	copy(zones, s.zones)
	s.zones = append(zones, z)
	s.log.WithFields(log.Fields{
		"id":       z.ID,
		"category": z.Category,
		"radius":   z.RadiusMeters,
	}).Info("Zone added")
	return z, nil
}

// ClockTick advances simulated time by one step while running and resizes the
// pool for the new hour. It reports whether time moved.
func (s *Simulation) ClockTick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasRunning := s.clock.Running()
	if !s.clock.Tick() {
		if wasRunning {
			s.log.WithField("time", s.clock.Now()).Info("Simulation finished")
		}
		return false
	}
	s.reschedule()
	return true
}

// MovementTick moves every agent one step and then updates exposure from the
// moved positions. Nothing happens while stopped.
func (s *Simulation) MovementTick() TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.clock.Running() {
		return TickReport{}
	}
	moved, report := s.movement.Step(s.agents)
	s.agents = Expose(moved, s.zones, s.cfg.ContactRadiusM)
	for _, w := range report.Warnings {
		s.log.WithError(w).WithField("unassigned", report.Unassigned).Debug("Route assignment failed")
	}
	return report
}

// reschedule resizes the pool for the current hour. Callers hold the lock.
func (s *Simulation) reschedule() {
	agents, nextID, err := s.scheduler.Resize(s.agents, s.target, s.clock.Hour(), s.nextID, s.movement)
	if err != nil {
		s.log.WithError(err).Debug("Spawned agents without a route")
	}
	s.agents, s.nextID = agents, nextID
}

// Snapshot returns a copy of the state for display.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newSnapshot(s)
}

// Run drives the clock and movement ticks at their configured real-time
// intervals until ctx is done. publish, when set, receives a snapshot after
// every tick that changed the state.
func (s *Simulation) Run(ctx context.Context, publish func(Snapshot)) {
	clockTicker := time.NewTicker(s.cfg.ClockInterval)
	defer clockTicker.Stop()
	moveTicker := time.NewTicker(s.cfg.MovementInterval)
	defer moveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clockTicker.C:
			wasRunning := s.Running()
			if s.ClockTick() || wasRunning {
				s.publish(publish)
			}
		case <-moveTicker.C:
			if s.Running() {
				s.MovementTick()
				s.publish(publish)
			}
		}
	}
}

func (s *Simulation) publish(fn func(Snapshot)) {
	if fn != nil {
		fn(s.Snapshot())
	}
}
