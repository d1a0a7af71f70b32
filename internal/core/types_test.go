package core

import (
	"slices"
	"testing"
)

type stubSim struct{}

func (stubSim) Name() string   { return "stub" }
func (stubSim) Size() Size     { return Size{W: 1, H: 1} }
func (stubSim) Reset(int64)    {}
func (stubSim) Step()          {}
func (stubSim) Cells() []uint8 { return []uint8{0} }

func TestRegister(t *testing.T) {
	Register("", func(map[string]string) Sim { return stubSim{} })
	Register("nil-factory", nil)
	Register("zz-stub", func(map[string]string) Sim { return stubSim{} })
	t.Cleanup(func() { delete(sims, "zz-stub") })

	names := SimNames()
	if slices.Contains(names, "") || slices.Contains(names, "nil-factory") {
		t.Fatalf("invalid registrations accepted: %v", names)
	}
	if !slices.Contains(names, "zz-stub") || !slices.IsSorted(names) {
		t.Fatalf("names = %v", names)
	}
	if got := Sims()["zz-stub"](nil).Name(); got != "stub" {
		t.Fatalf("factory returned %q", got)
	}
}
