package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skovsen/monipoll"
	"github.com/skovsen/monipoll/internal/server"
)

func setupLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func load(path string) (*monipoll.Simulation, error) {
	cfg, err := monipoll.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.Routes == "" {
		return nil, fmt.Errorf("config %s does not name a routes file", path)
	}
	routes, err := monipoll.LoadRoutes(cfg.Routes)
	if err != nil {
		return nil, err
	}
	return monipoll.NewSimulation(cfg, routes, log.StandardLogger())
}

func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// runHeadless steps the simulation as fast as it can, or at the configured
// pace with realtime, and logs the counts every simulated hour.
func runHeadless(ctx context.Context, path string, realtime bool) error {
	sim, err := load(path)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible(ctx)
	defer cancel()

	cfg := sim.Config()
	sim.Start()

	if realtime {
		lastHour := -1
		sim.Run(stopWhenDone(ctx, sim), func(snap monipoll.Snapshot) {
			if h := snap.Time.Hour(); h != lastHour {
				lastHour = h
				logCounts(snap)
			}
		})
		return nil
	}

	// as many movement ticks per simulated step as real time would give
	moves := int(cfg.ClockInterval / cfg.MovementInterval)
	if moves < 1 {
		moves = 1
	}
	for sim.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for i := 0; i < moves; i++ {
			sim.MovementTick()
		}
		logCounts(sim.Snapshot())
		sim.ClockTick()
	}
	log.WithField("time", sim.Snapshot().Time).Info("Simulation finished")
	return nil
}

// stopWhenDone cancels once the simulation's clock has stopped itself.
func stopWhenDone(ctx context.Context, sim *monipoll.Simulation) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if !sim.Running() {
					cancel()
					return
				}
			}
		}
	}()
	return ctx
}

func logCounts(snap monipoll.Snapshot) {
	log.WithFields(log.Fields{
		"time":       snap.Time.Format(time.DateTime),
		"night":      snap.Night,
		"population": snap.Population(),
		"infected":   snap.Infected,
		"uninfected": snap.Uninfected,
	}).Info("Simulated hour")
}

func runServe(ctx context.Context, path string, port int) error {
	sim, err := load(path)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible(ctx)
	defer cancel()
	return server.New(sim, port, log.StandardLogger()).Start(ctx)
}
