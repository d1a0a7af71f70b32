package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim      string
	Layout   string
	Scenario string
	Save     string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "traffic", Layout: "corridor", Scale: 8, TPS: 15, Seed: 42, HUDWidth: 260, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.Layout, "layout", c.Layout, "built-in street layout")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "scenario JSON file; overrides -layout")
	fs.StringVar(&c.Save, "save", c.Save, "file written with the current snapshot when F5 is pressed")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel in pixels; 0 hides it")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Params returns the configuration map handed to sim factories.
func (c *Config) Params() map[string]string {
	return map[string]string{
		"layout": c.Layout,
		"seed":   strconv.FormatInt(c.Seed, 10),
	}
}
