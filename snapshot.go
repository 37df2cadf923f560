package monipoll

import (
	"time"

	"github.com/google/uuid"
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// zoneSegments is the number of segments used for zone outlines.
const zoneSegments = 50

// AgentView is the part of an agent a display needs.
type AgentView struct {
	ID             int     `json:"id"`
	Key            string  `json:"key"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Age            int     `json:"age"`
	ExposureDegree float64 `json:"exposureDegree"`
}

// ZoneView is a zone as sent to a display.
type ZoneView struct {
	ID             uuid.UUID `json:"id"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	RadiusMeters   float64   `json:"radiusMeters"`
	ActivationTime float64   `json:"activationTime"`
	Category       Category  `json:"category"`
}

// Snapshot is a consistent copy of the simulation state at one instant.
type Snapshot struct {
	Time             time.Time   `json:"time"`
	Running          bool        `json:"running"`
	Night            bool        `json:"night"`
	DurationDays     int         `json:"durationDays"`
	TargetPopulation int         `json:"targetPopulation"`
	Agents           []AgentView `json:"agents"`
	Zones            []ZoneView  `json:"zones"`
	Infected         int         `json:"infected"`
	Uninfected       int         `json:"uninfected"`
}

func newSnapshot(s *Simulation) Snapshot {
	snap := Snapshot{
		Time:             s.clock.Now(),
		Running:          s.clock.Running(),
		Night:            s.clock.Night(),
		DurationDays:     s.clock.Days(),
		TargetPopulation: s.target,
		Agents:           make([]AgentView, 0, len(s.agents)),
		Zones:            make([]ZoneView, 0, len(s.zones)),
	}
	// unplaced agents are counted but have nowhere to be drawn
	snap.Infected, snap.Uninfected = Count(s.agents)
	for _, a := range s.agents {
		if !a.Placed {
			continue
		}
		snap.Agents = append(snap.Agents, AgentView{
			ID:             a.ID,
			Key:            a.Key(),
			Lat:            a.Position.Lat(),
			Lng:            a.Position.Lon(),
			Age:            a.Age,
			ExposureDegree: a.ExposureDegree,
		})
	}
	for _, z := range s.zones {
		snap.Zones = append(snap.Zones, ZoneView{
			ID:             z.ID,
			Lat:            z.Center.Lat(),
			Lng:            z.Center.Lon(),
			RadiusMeters:   z.RadiusMeters,
			ActivationTime: z.ActivationTime,
			Category:       z.Category,
		})
	}
	return snap
}

// Population is the number of agents in the pool.
func (s Snapshot) Population() int {
	return s.Infected + s.Uninfected
}

// FeatureCollection renders agents as points and zones as polygons so the
// snapshot can be dropped straight onto a map.
func (s Snapshot) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range s.Agents {
		f := geojson.NewFeature(LatLng(a.Lat, a.Lng))
		f.ID = a.Key
		f.Properties["kind"] = "agent"
		f.Properties["age"] = a.Age
		f.Properties["exposureDegree"] = a.ExposureDegree
		fc.Append(f)
	}
	for _, z := range s.Zones {
		outline := HazardZone{Center: LatLng(z.Lat, z.Lng), RadiusMeters: z.RadiusMeters}.Ring(zoneSegments)
		f := geojson.NewFeature(orb.Polygon{outline})
		f.ID = z.ID.String()
		f.Properties["kind"] = "zone"
		f.Properties["category"] = string(z.Category)
		f.Properties["radiusMeters"] = z.RadiusMeters
		f.Properties["activationTime"] = z.ActivationTime
		fc.Append(f)
	}
	return fc
}
