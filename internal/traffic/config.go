package traffic

import "strconv"

// Config controls the traffic world's randomness, clock and defaults.
type Config struct {
	Seed int64

	TicksPerHour int
	StartHour    int

	// GenProbability is the generation probability used by the built-in
	// layouts for their generator streets.
	GenProbability float64

	// DefaultEntryProb and DefaultExitProb apply to parkings whose profile
	// carries neither an hourly override nor a default.
	DefaultEntryProb float64
	DefaultExitProb  float64

	// Layout names the built-in street layout for registry-built worlds.
	Layout string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:             1337,
		TicksPerHour:     120,
		StartHour:        7,
		GenProbability:   0.35,
		DefaultEntryProb: DefaultEntryProbability,
		DefaultExitProb:  DefaultExitProbability,
		Layout:           "corridor",
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparsable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["ticks_per_hour"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TicksPerHour = parsed
		}
	}
	if v, ok := cfg["start_hour"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed < HoursPerDay {
			c.StartHour = parsed
		}
	}
	if v, ok := cfg["gen_probability"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.GenProbability = parsed
		}
	}
	if v, ok := cfg["default_entry_prob"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.DefaultEntryProb = parsed
		}
	}
	if v, ok := cfg["default_exit_prob"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.DefaultExitProb = parsed
		}
	}
	if v, ok := cfg["layout"]; ok && v != "" {
		c.Layout = v
	}
	return c
}
