package monipoll

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to build a Simulation. Seed drives every
// random choice; 0 seeds from the wall clock.
type Config struct {
	StartTime        time.Time     `yaml:"start_time"`
	DurationDays     int           `yaml:"duration_days"`
	TargetPopulation int           `yaml:"target_population"`
	NightPopulation  int           `yaml:"night_population"`
	ClockInterval    time.Duration `yaml:"clock_interval"`
	SimStep          time.Duration `yaml:"sim_step"`
	MovementInterval time.Duration `yaml:"movement_interval"`
	SpeedKm          float64       `yaml:"speed_km"`
	ContactRadiusM   float64       `yaml:"contact_radius_m"`
	Seed             int64         `yaml:"seed"`
	Routes           string        `yaml:"routes"`
	Zones            []ZoneRequest `yaml:"zones"`
}

// DefaultConfig mirrors the defaults of the zone editor UI.
func DefaultConfig() Config {
	return Config{
		StartTime:        time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationDays:     1,
		TargetPopulation: 100,
		NightPopulation:  DefaultNightPopulation,
		ClockInterval:    time.Second,
		SimStep:          time.Hour,
		MovementInterval: 100 * time.Millisecond,
		SpeedKm:          DefaultSpeedKm,
		ContactRadiusM:   ContactRadiusMeters,
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig. A relative routes
// path is resolved against the config file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}
	if cfg.Routes != "" && !filepath.IsAbs(cfg.Routes) {
		cfg.Routes = filepath.Join(filepath.Dir(path), cfg.Routes)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a simulation cannot run with.
func (c Config) Validate() error {
	if c.DurationDays < 0 {
		return fmt.Errorf("%w: duration_days %d", ErrInvalidDuration, c.DurationDays)
	}
	if c.TargetPopulation < 0 {
		return fmt.Errorf("%w: target_population %d", ErrInvalidAgentCount, c.TargetPopulation)
	}
	if c.NightPopulation < 0 {
		return fmt.Errorf("%w: night_population %d", ErrInvalidAgentCount, c.NightPopulation)
	}
	if c.ClockInterval <= 0 || c.MovementInterval <= 0 || c.SimStep <= 0 {
		return fmt.Errorf("clock_interval, movement_interval and sim_step must be positive")
	}
	if c.SpeedKm <= 0 {
		return fmt.Errorf("speed_km must be positive, got %v", c.SpeedKm)
	}
	if c.ContactRadiusM < 0 || c.ContactRadiusM > MaxContactRadiusMeters {
		return fmt.Errorf("contact_radius_m must be within [0, %v], got %v", MaxContactRadiusMeters, c.ContactRadiusM)
	}
	for i, z := range c.Zones {
		if _, err := NewHazardZone(z); err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
	}
	return nil
}
