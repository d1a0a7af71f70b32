package traffic

import (
	"testing"

	"github.com/pkg/errors"

	pcore "mad-traffic/pkg/core"
)

func TestNewStreetRejectsInvalidSpec(t *testing.T) {
	cases := []StreetSpec{
		{ID: "zero-length", Length: 0, Lanes: 1},
		{ID: "no-lanes", Length: 3, Lanes: 0},
		{ID: "bad-role", Length: 3, Lanes: 1, Head: Role(9)},
	}
	for _, spec := range cases {
		if _, err := NewStreet(spec); !errors.Is(err, ErrInvalidStreet) {
			t.Fatalf("%s: expected ErrInvalidStreet, got %v", spec.ID, err)
		}
	}
	if _, err := NewStreet(StreetSpec{ID: "p", Length: 3, Lanes: 1, GenProbability: 1.5}); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
}

func TestGeneratorFillsHeadThenAdvances(t *testing.T) {
	w := newTestWorld(t)
	s := mustStreet(t, w, StreetSpec{ID: "g", Length: 5, Lanes: 1, Head: RoleGenerator, Tail: RoleSink, GenProbability: 1})

	w.StepAt(0)
	first := s.Cell(0, 0)
	if !first.IsVehicle() {
		t.Fatalf("after tick 1 head holds %v, want a vehicle", first)
	}
	for i := 1; i < 5; i++ {
		if s.Cell(0, i) != Empty {
			t.Fatalf("after tick 1 cell %d = %v, want empty", i, s.Cell(0, i))
		}
	}

	w.StepAt(0)
	if got := s.Cell(0, 1); got != first {
		t.Fatalf("after tick 2 cell 1 = %v, want %v", got, first)
	}
	if !s.Cell(0, 0).IsVehicle() {
		t.Fatalf("after tick 2 head holds %v, want a new vehicle", s.Cell(0, 0))
	}
}

func TestZeroProbabilityGeneratorNeverInjects(t *testing.T) {
	w := newTestWorld(t)
	s := mustStreet(t, w, StreetSpec{ID: "g", Length: 8, Lanes: 3, Head: RoleGenerator, Tail: RoleSink})
	for i := 0; i < 500; i++ {
		c := w.StepAt(i % HoursPerDay)
		if c.Generated != 0 {
			t.Fatalf("tick %d generated %d vehicles", i, c.Generated)
		}
	}
	if n := s.Vehicles(); n != 0 {
		t.Fatalf("expected no vehicles, got %d", n)
	}
}

func TestUpdateIsSynchronous(t *testing.T) {
	s, err := NewStreet(StreetSpec{ID: "s", Length: 4, Lanes: 1})
	if err != nil {
		t.Fatal(err)
	}
	setLane(s, 0, 1, 2, Empty, Empty)
	var c Counters
	s.step(pcore.NewRNG(1), &c)
	if !laneEquals(s, 0, 1, Empty, 2, Empty) {
		t.Fatalf("got %v, want [1 0 2 0]", s.Lane(0))
	}
}

func TestVehicleQueuesBehindBlockage(t *testing.T) {
	s, err := NewStreet(StreetSpec{ID: "s", Length: 5, Lanes: 1})
	if err != nil {
		t.Fatal(err)
	}
	setLane(s, 0, 2, Empty, Blocked, Empty, Empty)
	rng := pcore.NewRNG(1)
	var c Counters
	s.step(rng, &c)
	if !laneEquals(s, 0, Empty, 2, Blocked, Empty, Empty) {
		t.Fatalf("tick 1: got %v", s.Lane(0))
	}
	for i := 0; i < 5; i++ {
		s.step(rng, &c)
	}
	if !laneEquals(s, 0, Empty, 2, Blocked, Empty, Empty) {
		t.Fatalf("vehicle should wait behind the blockage, got %v", s.Lane(0))
	}
}

func TestSinkDiscardsAndCounts(t *testing.T) {
	s, err := NewStreet(StreetSpec{ID: "s", Length: 3, Lanes: 2})
	if err != nil {
		t.Fatal(err)
	}
	setLane(s, 0, Empty, Empty, 4)
	setLane(s, 1, Empty, 5, 6)
	var c Counters
	s.step(pcore.NewRNG(1), &c)
	if c.Exited != 2 {
		t.Fatalf("expected 2 exits, got %d", c.Exited)
	}
	if !laneEquals(s, 0, Empty, Empty, Empty) || !laneEquals(s, 1, Empty, 5, Empty) {
		t.Fatalf("unexpected lanes %v %v", s.Lane(0), s.Lane(1))
	}
}

func TestHeldLaneConservesVehicles(t *testing.T) {
	s, err := NewStreet(StreetSpec{ID: "s", Length: 32, Lanes: 1, Tail: RoleConnector})
	if err != nil {
		t.Fatal(err)
	}
	s.held[0] = true
	rng := pcore.NewRNG(7)
	pcore.FillClasses(rng.Source(), s.cur.Row(0), 0.4)
	want := s.Vehicles()
	var c Counters
	for i := 0; i < 128; i++ {
		s.step(rng, &c)
		if got := s.Vehicles(); got != want {
			t.Fatalf("tick %d: %d vehicles, want %d", i, got, want)
		}
	}
	lane := s.Lane(0)
	for i := 0; i < 32; i++ {
		packed := i >= 32-want
		if lane[i].IsVehicle() != packed {
			t.Fatalf("expected vehicles packed at the tail, got %v", lane)
		}
	}
}

func TestGeneratorDoesNotOverwriteQueuedHead(t *testing.T) {
	w := newTestWorld(t)
	s := mustStreet(t, w, StreetSpec{ID: "g", Length: 3, Lanes: 1, Head: RoleGenerator, Tail: RoleSink, GenProbability: 1})
	setLane(s, 0, 3, 4, Blocked)
	w.StepAt(0)
	if !laneEquals(s, 0, 3, 4, Blocked) {
		t.Fatalf("queued head must keep its vehicle, got %v", s.Lane(0))
	}
	if w.Stats().Last.Generated != 0 {
		t.Fatal("no vehicle can be generated onto an occupied head")
	}
}

func TestRoleText(t *testing.T) {
	for _, r := range []Role{RoleSink, RoleGenerator, RoleConnector} {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Role
		if err := back.UnmarshalText(b); err != nil || back != r {
			t.Fatalf("role %v decoded as %v (%v)", r, back, err)
		}
	}
	var r Role
	if err := r.UnmarshalText([]byte("teleporter")); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
