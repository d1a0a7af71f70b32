//go:build ebiten

package main

import (
	"errors"
	"flag"

	"mad-traffic/internal/app"
	"mad-traffic/internal/core"
	"mad-traffic/internal/scenario"
	"mad-traffic/internal/traffic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	log := logrus.WithField("cmd", "traffic")

	sim, err := buildSim(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("build simulation")
	}

	game := app.New(sim, cfg.Scale, cfg.Seed,
		app.WithHUD(cfg.HUDWidth),
		app.WithSavePath(cfg.Save),
		app.WithLogger(log),
	)
	w, h := game.ScreenSize()

	ebiten.SetWindowTitle("mad-traffic: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("run game")
	}
}

func buildSim(cfg *app.Config, log *logrus.Entry) (core.Sim, error) {
	if cfg.Scenario != "" {
		doc, err := scenario.LoadFile(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		tc := traffic.DefaultConfig()
		tc.Seed = cfg.Seed
		w, err := scenario.Build(doc, tc, traffic.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.WithField("available", core.SimNames()).Fatalf("unknown sim %q", cfg.Sim)
	}
	return factory(cfg.Params()), nil
}
