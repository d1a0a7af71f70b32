package ui

import (
	"math"
	"strconv"

	"mad-traffic/internal/core"
)

const defaultFloatStep = 0.05

// control is one adjustable row of the HUD. Integer parameters are carried as
// whole floats so both kinds share the stepping rules.
type control struct {
	spec  core.ParameterControl
	value float64
	known bool
}

// controlsFor lists the sim's adjustable parameters, or nil when it has none.
func controlsFor(sim core.Sim) []control {
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	specs := provider.ParameterControls()
	out := make([]control, 0, len(specs))
	for _, spec := range specs {
		if spec.Type != core.ParamTypeInt && spec.Type != core.ParamTypeFloat {
			continue
		}
		out = append(out, control{spec: spec})
	}
	return out
}

// sync takes the control's current value from snap.
func (c *control) sync(snap core.ParameterSnapshot) {
	c.known = false
	param, ok := snap.Lookup(c.spec.Key)
	if !ok {
		return
	}
	v, err := strconv.ParseFloat(param.Value, 64)
	if err != nil {
		return
	}
	c.value, c.known = v, true
}

func (c control) step() float64 {
	if c.spec.Type == core.ParamTypeInt {
		return math.Max(1, math.Round(c.spec.Step))
	}
	if c.spec.Step <= 0 {
		return defaultFloatStep
	}
	return c.spec.Step
}

// next returns the value one step in direction dir, clamped to the control's
// bounds. ok is false when the value would not change.
func (c control) next(dir int) (float64, bool) {
	if !c.known || dir == 0 {
		return c.value, false
	}
	target := c.value + float64(dir)*c.step()
	if c.spec.HasMin && target < c.spec.Min {
		target = c.spec.Min
	}
	if c.spec.HasMax && target > c.spec.Max {
		target = c.spec.Max
	}
	if c.spec.Type == core.ParamTypeInt {
		target = math.Round(target)
	}
	return target, math.Abs(target-c.value) > 1e-9
}

// label formats the current value with a precision matching the step.
func (c control) label() string {
	if !c.known {
		return "--"
	}
	if c.spec.Type == core.ParamTypeInt {
		return strconv.Itoa(int(c.value))
	}
	precision := 1
	switch s := c.step(); {
	case s < 0.001:
		precision = 4
	case s < 0.01:
		precision = 3
	case s < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(c.value, 'f', precision, 64)
}

// enabled reports whether a step in direction dir would reach a setter.
func (c control) enabled(sim core.Sim, dir int) bool {
	if _, ok := c.next(dir); !ok {
		return false
	}
	switch c.spec.Type {
	case core.ParamTypeInt:
		_, ok := sim.(core.IntParameterSetter)
		return ok
	case core.ParamTypeFloat:
		_, ok := sim.(core.FloatParameterSetter)
		return ok
	}
	return false
}

// adjust moves the control one step and pushes the result to sim. It reports
// whether the sim accepted the new value.
func (c *control) adjust(sim core.Sim, dir int) bool {
	target, ok := c.next(dir)
	if !ok {
		return false
	}
	switch c.spec.Type {
	case core.ParamTypeInt:
		setter, ok := sim.(core.IntParameterSetter)
		if !ok || !setter.SetIntParameter(c.spec.Key, int(target)) {
			return false
		}
	case core.ParamTypeFloat:
		setter, ok := sim.(core.FloatParameterSetter)
		if !ok || !setter.SetFloatParameter(c.spec.Key, target) {
			return false
		}
	default:
		return false
	}
	c.value = target
	return true
}
