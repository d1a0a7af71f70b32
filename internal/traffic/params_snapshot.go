package traffic

import (
	"fmt"
	"strconv"

	"mad-traffic/internal/core"
)

// Parameters reports the tunables and live counters shown on the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	st := w.Stats()
	parking := make([]core.Parameter, 0, len(w.parkings))
	for _, p := range w.parkings {
		parking = append(parking, textParam("parking."+p.id, p.id, fmt.Sprintf("%d/%d", p.occupancy, p.capacity)))
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("tick", "Tick", int(w.tick)),
				intParam("hour", "Hour", w.hour),
				intParam("ticks_per_hour", "Ticks per hour", w.clock.TicksPerHour),
				intParam("start_hour", "Start hour", w.clock.StartHour),
			},
		},
		{
			Name: "Traffic",
			Params: []core.Parameter{
				floatParam("gen_probability", "Generation chance", w.cfg.GenProbability),
				intParam("vehicles", "Vehicles", st.Vehicles),
				intParam("generated", "Generated", st.Total.Generated),
				intParam("exited", "Exited", st.Total.Exited),
				intParam("backpressured", "Blocked transfers", st.Total.Backpressured),
			},
		},
		{
			Name: "Parking",
			Params: append([]core.Parameter{
				floatParam("default_entry_prob", "Default entry chance", w.cfg.DefaultEntryProb),
				floatParam("default_exit_prob", "Default exit chance", w.cfg.DefaultExitProb),
				intParam("parked", "Parked", st.Parked),
			}, parking...),
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "gen_probability", Label: "Generation chance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "default_entry_prob", Label: "Entry chance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "default_exit_prob", Label: "Exit chance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "ticks_per_hour", Label: "Ticks per hour", Type: core.ParamTypeInt, Step: 10, Min: 1, HasMin: true},
		{Key: "start_hour", Label: "Start hour", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: HoursPerDay - 1, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a probability. gen_probability is applied to
// every generator street.
func (w *World) SetFloatParameter(key string, value float64) bool {
	value = clamp01(value)
	switch key {
	case "gen_probability":
		w.cfg.GenProbability = value
		for _, s := range w.streets {
			if s.Head() == RoleGenerator {
				s.spec.GenProbability = value
			}
		}
	case "default_entry_prob":
		w.cfg.DefaultEntryProb = value
	case "default_exit_prob":
		w.cfg.DefaultExitProb = value
	default:
		return false
	}
	return true
}

// SetIntParameter updates a clock setting.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "ticks_per_hour":
		if value < 1 {
			value = 1
		}
		w.cfg.TicksPerHour = value
		w.clock.TicksPerHour = value
	case "start_hour":
		if value < 0 || value >= HoursPerDay {
			return false
		}
		w.cfg.StartHour = value
		w.clock.StartHour = value
	default:
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func textParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeText,
		Value: value,
	}
}
