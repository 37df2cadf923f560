package monipoll

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	orb "github.com/paulmach/orb"
)

func TestLoadRoutes(t *testing.T) {
	n, err := LoadRoutes("testdata/routes.geojson")
	if err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	// two LineStrings plus the two lines of the MultiLineString, the node is skipped
	if n.Len() != 4 {
		t.Errorf("routes = %d, want 4", n.Len())
	}
}

func TestLoadRoutesMissingFile(t *testing.T) {
	if _, err := LoadRoutes("testdata/nope.geojson"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseRoutesBareGeometry(t *testing.T) {
	n, err := ParseRoutes([]byte(`{"type":"LineString","coordinates":[[1,2],[3,4]]}`))
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}
	if n.Len() != 1 {
		t.Fatalf("routes = %d, want 1", n.Len())
	}
	start, end, err := n.Pick(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if !start.Equal(orb.Point{1, 2}) || !end.Equal(orb.Point{3, 4}) {
		t.Errorf("got %v -> %v, want [1 2] -> [3 4]", start, end)
	}
}

func TestParseRoutesEmptyCollection(t *testing.T) {
	inputs := []string{
		`{"type":"FeatureCollection","features":[]}`,
		`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`,
	}
	for _, in := range inputs {
		n, err := ParseRoutes([]byte(in))
		if err != nil {
			t.Errorf("ParseRoutes(%s) failed: %v", in, err)
			continue
		}
		if n.Len() != 0 {
			t.Errorf("routes = %d, want 0", n.Len())
		}
		if _, _, err := n.Pick(rand.New(rand.NewSource(1))); !errors.Is(err, ErrEmptyRouteNetwork) {
			t.Errorf("expected ErrEmptyRouteNetwork, got %v", err)
		}
	}
}

func TestLoadRoutesEmptyFileStartsSimulation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.geojson")
	if err := os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := LoadRoutes(path)
	if err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Seed = 1
	s, err := NewSimulation(cfg, n, quietLogger())
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	s.Start()
	if report := s.MovementTick(); report.Unassigned != 90 {
		t.Errorf("unassigned = %d, want 90", report.Unassigned)
	}
}

func TestParseRoutesInvalid(t *testing.T) {
	if _, err := ParseRoutes([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestPickEmptyNetwork(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []*RouteNetwork{nil, NewRouteNetwork(nil), NewRouteNetwork([]orb.LineString{{}})} {
		if _, _, err := n.Pick(rng); !errors.Is(err, ErrEmptyRouteNetwork) {
			t.Errorf("expected ErrEmptyRouteNetwork, got %v", err)
		}
	}
}

func TestPickUsesEndpoints(t *testing.T) {
	n := NewRouteNetwork([]orb.LineString{
		{{0, 0}, {5, 5}, {1, 1}},
	})
	start, end, err := n.Pick(rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if !start.Equal(orb.Point{0, 0}) || !end.Equal(orb.Point{1, 1}) {
		t.Errorf("got %v -> %v, want first and last point", start, end)
	}
}

func TestPickIsUniform(t *testing.T) {
	n := NewRouteNetwork([]orb.LineString{
		{{0, 0}, {0, 1}},
		{{1, 0}, {1, 1}},
		{{2, 0}, {2, 1}},
	})
	rng := rand.New(rand.NewSource(42))
	seen := map[float64]int{}
	for i := 0; i < 3000; i++ {
		start, _, _ := n.Pick(rng)
		seen[start[0]]++
	}
	for x := 0.0; x < 3; x++ {
		if seen[x] < 800 || seen[x] > 1200 {
			t.Errorf("route %v picked %d times out of 3000", x, seen[x])
		}
	}
}

func TestRouteNetworkBound(t *testing.T) {
	n, err := LoadRoutes("testdata/routes.geojson")
	if err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	b := n.Bound()
	if b.Min[0] != 83.0990 || b.Max[1] != 54.8402 {
		t.Errorf("unexpected bound %v", b)
	}
}
