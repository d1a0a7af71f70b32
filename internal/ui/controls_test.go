package ui

import (
	"strconv"
	"testing"

	"mad-traffic/internal/core"
)

type tunableSim struct {
	speed  float64
	lanes  int
	reject bool
}

func (s *tunableSim) Name() string { return "tunable" }
func (s *tunableSim) Size() core.Size { return core.Size{W: 1, H: 1} }
func (s *tunableSim) Reset(int64) {}
func (s *tunableSim) Step() {}
func (s *tunableSim) Cells() []uint8 { return []uint8{0} }

func (s *tunableSim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "lanes", Label: "Lanes", Type: core.ParamTypeInt, Step: 2, Min: 1, HasMin: true},
		{Key: "name", Label: "Name", Type: core.ParamTypeText},
	}
}

func (s *tunableSim) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Tunable",
		Params: []core.Parameter{
			{Key: "speed", Value: strconv.FormatFloat(s.speed, 'f', -1, 64)},
			{Key: "lanes", Value: strconv.Itoa(s.lanes)},
		},
	}}}
}

func (s *tunableSim) SetFloatParameter(key string, v float64) bool {
	if s.reject || key != "speed" {
		return false
	}
	s.speed = v
	return true
}

func (s *tunableSim) SetIntParameter(key string, v int) bool {
	if s.reject || key != "lanes" {
		return false
	}
	s.lanes = v
	return true
}

func syncedControls(t *testing.T, sim *tunableSim) []control {
	t.Helper()
	controls := controlsFor(sim)
	if len(controls) != 2 {
		t.Fatalf("controls = %d, want the int and float rows only", len(controls))
	}
	for i := range controls {
		controls[i].sync(sim.Parameters())
	}
	return controls
}

func TestControlStepsAndClamps(t *testing.T) {
	sim := &tunableSim{speed: 0.9, lanes: 2}
	controls := syncedControls(t, sim)
	speed, lanes := &controls[0], &controls[1]

	if !speed.adjust(sim, 1) || sim.speed != 1 {
		t.Fatalf("speed = %g, want clamped to 1", sim.speed)
	}
	if speed.enabled(sim, 1) {
		t.Fatal("plus should be disabled at the maximum")
	}
	if speed.adjust(sim, 1) {
		t.Fatal("a step past the maximum should not reach the sim")
	}
	if !speed.adjust(sim, -1) || sim.speed != 0.75 {
		t.Fatalf("speed = %g, want 0.75", sim.speed)
	}

	if !lanes.adjust(sim, -1) || sim.lanes != 1 {
		t.Fatalf("lanes = %d, want clamped to 1", sim.lanes)
	}
	if !lanes.adjust(sim, 1) || sim.lanes != 3 {
		t.Fatalf("lanes = %d, want 3", sim.lanes)
	}
}

func TestControlRejectedBySim(t *testing.T) {
	sim := &tunableSim{speed: 0.5, lanes: 4, reject: true}
	controls := syncedControls(t, sim)
	if controls[0].adjust(sim, 1) {
		t.Fatal("rejected value reported as applied")
	}
	if controls[0].value != 0.5 {
		t.Fatalf("control moved to %g after rejection", controls[0].value)
	}
}

func TestControlLabel(t *testing.T) {
	cases := []struct {
		spec  core.ParameterControl
		value float64
		want  string
	}{
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.25}, 0.5, "0.5"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.05}, 0.35, "0.35"},
		{core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.005}, 0.125, "0.125"},
		{core.ParameterControl{Type: core.ParamTypeFloat}, 0.2, "0.20"},
		{core.ParameterControl{Type: core.ParamTypeInt, Step: 10}, 120, "120"},
	}
	for _, tc := range cases {
		c := control{spec: tc.spec, value: tc.value, known: true}
		if got := c.label(); got != tc.want {
			t.Errorf("label(%g, step %g) = %q, want %q", tc.value, tc.spec.Step, got, tc.want)
		}
	}
	if got := (control{}).label(); got != "--" {
		t.Errorf("unknown value label = %q", got)
	}
}

func TestControlUnknownValueStaysPut(t *testing.T) {
	sim := &tunableSim{}
	c := control{spec: core.ParameterControl{Key: "missing", Type: core.ParamTypeInt, Step: 1}}
	c.sync(sim.Parameters())
	if c.known || c.enabled(sim, 1) || c.adjust(sim, 1) {
		t.Fatal("a control without a reported value must not adjust")
	}
}
