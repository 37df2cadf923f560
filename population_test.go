package monipoll

import (
	"errors"
	"math/rand"
	"testing"
)

func newScheduler(seed int64) (*PopulationScheduler, *MovementEngine) {
	rng := rand.New(rand.NewSource(seed))
	return NewPopulationScheduler(DefaultNightPopulation, rng), NewMovementEngine(testRoutes(), 0, rng)
}

func TestEffectiveCountBands(t *testing.T) {
	s, _ := newScheduler(1)
	if n := s.EffectiveCount(200, 3); n != 90 {
		t.Errorf("night count = %d, want 90", n)
	}
	if n := s.EffectiveCount(200, 9); n != 200 {
		t.Errorf("peak count = %d, want 200", n)
	}
	if n := s.EffectiveCount(200, 18); n != 200 {
		t.Errorf("evening peak count = %d, want 200", n)
	}
}

func TestEffectiveCountBounds(t *testing.T) {
	s, _ := newScheduler(2)
	for _, target := range []int{0, 10, 89, 90, 91, 150, 500} {
		for hour := 0; hour < 24; hour++ {
			for i := 0; i < 20; i++ {
				n := s.EffectiveCount(target, hour)
				if target < 90 && n != target {
					t.Errorf("target %d hour %d: count %d, want %d", target, hour, n, target)
				}
				if target >= 90 && (n < 90 || n > target) {
					t.Errorf("target %d hour %d: count %d out of [90, %d]", target, hour, n, target)
				}
			}
		}
	}
}

func TestEffectiveCountNegativeTarget(t *testing.T) {
	s, _ := newScheduler(1)
	if n := s.EffectiveCount(-5, 3); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestEffectiveCountOffPeakVaries(t *testing.T) {
	s, _ := newScheduler(5)
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		seen[s.EffectiveCount(300, 13)] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected off-peak count to fluctuate, saw %v", seen)
	}
}

func TestResizeGrowAndShrink(t *testing.T) {
	s, m := newScheduler(1)

	agents, nextID, err := s.Resize(nil, 200, 9, 0, m)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(agents) != 200 || nextID != 200 {
		t.Fatalf("got %d agents and next ID %d, want 200 and 200", len(agents), nextID)
	}
	agents[5].ExposureDegree = 15

	shrunk, nextID, err := s.Resize(agents, 200, 3, nextID, m)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if len(shrunk) != 90 {
		t.Fatalf("night pool = %d, want 90", len(shrunk))
	}
	for i, a := range shrunk {
		if a.ID != i {
			t.Errorf("expected prefix retention, index %d has ID %d", i, a.ID)
		}
	}
	if shrunk[5].ExposureDegree != 15 {
		t.Error("retained agent lost its exposure")
	}

	grown, nextID, _ := s.Resize(shrunk, 200, 9, nextID, m)
	if len(grown) != 200 {
		t.Fatalf("pool = %d, want 200", len(grown))
	}
	if grown[90].ID != 200 || nextID != 310 {
		t.Errorf("expected fresh IDs from 200, got %d (next %d)", grown[90].ID, nextID)
	}
	if grown[90].ExposureDegree != 0 {
		t.Error("new agents must start unexposed")
	}
}

func TestResizeDoesNotAliasInput(t *testing.T) {
	s, m := newScheduler(1)
	agents, next, _ := s.Resize(nil, 100, 9, 0, m)
	out, _, _ := s.Resize(agents, 100, 9, next, m)
	out[0].ExposureDegree = 50
	if agents[0].ExposureDegree != 0 {
		t.Error("resize must copy the pool")
	}
}

func TestResizeWithoutRoutes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewPopulationScheduler(DefaultNightPopulation, rng)
	m := NewMovementEngine(NewRouteNetwork(nil), 0, rng)
	agents, _, err := s.Resize(nil, 50, 9, 0, m)
	if !errors.Is(err, ErrEmptyRouteNetwork) {
		t.Fatalf("expected ErrEmptyRouteNetwork, got %v", err)
	}
	if len(agents) != 50 {
		t.Errorf("pool = %d, want 50 unplaced agents", len(agents))
	}
	for _, a := range agents {
		if a.Placed {
			t.Fatal("expected unplaced agents")
		}
	}
}
