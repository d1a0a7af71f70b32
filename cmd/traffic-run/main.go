// Command traffic-run drives a traffic world without a window and reports
// its counters through the log.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"mad-traffic/internal/core"
	"mad-traffic/internal/scenario"
	"mad-traffic/internal/traffic"
)

type options struct {
	layout   string
	scenario string
	seed     int64
	ticks    int
	tps      int
	density  float64
	every    int
	perHour  int
	start    int

	snapshot string
	geojson  string
	save     string

	logLevel string
	logJSON  bool
}

func main() {
	var opt options
	flag.StringVar(&opt.layout, "layout", "corridor", "built-in street layout")
	flag.StringVar(&opt.scenario, "scenario", "", "scenario JSON file; overrides -layout")
	flag.Int64Var(&opt.seed, "seed", 1337, "random seed")
	flag.IntVar(&opt.ticks, "ticks", 2880, "ticks to simulate")
	flag.IntVar(&opt.tps, "tps", 0, "ticks per second; 0 runs unthrottled")
	flag.Float64Var(&opt.density, "density", 0, "initial vehicle density on every street")
	flag.IntVar(&opt.every, "report", 0, "log counters every n ticks; 0 logs once per simulated hour")
	flag.IntVar(&opt.perHour, "ticks-per-hour", 120, "ticks per simulated hour")
	flag.IntVar(&opt.start, "start-hour", 7, "hour of day at tick 0")
	flag.StringVar(&opt.snapshot, "snapshot", "", "write the final blocked-cell and parking snapshot to this file")
	flag.StringVar(&opt.geojson, "geojson", "", "write the final network as GeoJSON to this file")
	flag.StringVar(&opt.save, "save", "", "write the final network as a scenario document to this file")
	flag.StringVar(&opt.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.BoolVar(&opt.logJSON, "log-json", false, "emit logs as JSON")
	flag.Parse()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(opt.logLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if opt.logJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	log := logger.WithField("cmd", "traffic-run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opt, log); err != nil {
		log.WithError(err).Fatal("run failed")
	}
}

func run(ctx context.Context, opt options, log *logrus.Entry) error {
	world, err := buildWorld(opt, log)
	if err != nil {
		return err
	}
	if opt.density > 0 {
		world.Populate(opt.density)
	}
	every := reportInterval(opt.every, world.Config().TicksPerHour)
	var pacer *core.FixedStep
	if opt.tps > 0 {
		pacer = core.NewFixedStep(opt.tps)
		log.WithField("interval", pacer.Interval()).Debug("pacing ticks")
	}

	log.WithFields(logrus.Fields{
		"streets":     len(world.Streets()),
		"connections": len(world.Connections()),
		"parkings":    len(world.Parkings()),
		"ticks":       opt.ticks,
	}).Info("simulation starting")

	for i := 0; i < opt.ticks; i++ {
		if ctx.Err() != nil {
			log.WithField("tick", world.Tick()).Warn("interrupted")
			break
		}
		if pacer != nil {
			pacer.Wait()
		}
		world.Step()
		if world.Tick()%every == 0 {
			report(log, world.Stats(), "progress")
		}
	}
	report(log, world.Stats(), "simulation finished")

	if opt.snapshot != "" {
		if err := writeJSON(opt.snapshot, world.Snapshot()); err != nil {
			return errors.Wrap(err, "write snapshot")
		}
		log.WithField("path", opt.snapshot).Info("snapshot written")
	}
	if opt.geojson != "" {
		if err := writeJSON(opt.geojson, world.GeoJSON()); err != nil {
			return errors.Wrap(err, "write geojson")
		}
		log.WithField("path", opt.geojson).Info("geojson written")
	}
	if opt.save != "" {
		if err := scenario.WriteFile(opt.save, scenario.Save(world, opt.layout)); err != nil {
			return err
		}
		log.WithField("path", opt.save).Info("scenario written")
	}
	return nil
}

// reportInterval returns the number of ticks between progress logs, falling
// back to one simulated hour and never less than one tick.
func reportInterval(every, perHour int) uint64 {
	if every < 1 {
		every = perHour
	}
	if every < 1 {
		every = 1
	}
	return uint64(every)
}

func buildWorld(opt options, log *logrus.Entry) (*traffic.World, error) {
	if opt.perHour < 1 {
		return nil, errors.Errorf("ticks-per-hour must be at least 1, got %d", opt.perHour)
	}
	if opt.start < 0 || opt.start >= traffic.HoursPerDay {
		return nil, errors.Errorf("start-hour must be in [0,%d), got %d", traffic.HoursPerDay, opt.start)
	}
	cfg := traffic.DefaultConfig()
	cfg.Seed = opt.seed
	cfg.TicksPerHour = opt.perHour
	cfg.StartHour = opt.start
	cfg.Layout = opt.layout
	if opt.scenario == "" {
		return traffic.BuildLayout(opt.layout, cfg, traffic.WithLogger(log))
	}
	doc, err := scenario.LoadFile(opt.scenario)
	if err != nil {
		return nil, err
	}
	return scenario.Build(doc, cfg, traffic.WithLogger(log))
}

func report(log *logrus.Entry, st traffic.Stats, msg string) {
	log.WithFields(logrus.Fields{
		"tick":          st.Ticks,
		"hour":          st.Hour,
		"vehicles":      st.Vehicles,
		"parked":        st.Parked,
		"generated":     st.Total.Generated,
		"exited":        st.Total.Exited,
		"transferred":   st.Total.Transferred,
		"backpressured": st.Total.Backpressured,
		"absorbed":      st.Total.Absorbed,
		"emitted":       st.Total.Emitted,
	}).Info(msg)
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
