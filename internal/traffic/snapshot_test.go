package traffic

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestBlockedKeyRoundTrip(t *testing.T) {
	cases := []CellRef{
		{Street: "main", Lane: 0, Index: 12},
		{Street: "a:b", Lane: 3, Index: 0},
	}
	for _, ref := range cases {
		back, err := ParseBlockedKey(BlockedKey(ref))
		if err != nil || back != ref {
			t.Fatalf("%v: got %v, %v", ref, back, err)
		}
	}
	for _, bad := range []string{"", "main", "main:1", ":1:2", "main:x:2", "main:1:y"} {
		if _, err := ParseBlockedKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("%q: expected ErrInvalidKey, got %v", bad, err)
		}
	}
}

func TestBlockedEditing(t *testing.T) {
	w := newTestWorld(t)
	s := mustStreet(t, w, StreetSpec{ID: "r", Length: 5, Lanes: 1})
	ref := CellRef{Street: "r", Index: 2}
	s.set(0, 2, 3)

	blocked, err := w.ToggleBlocked(ref, BlockInfo{Label: "barrier"})
	if err != nil || !blocked {
		t.Fatalf("toggle on: %v %v", blocked, err)
	}
	if s.Cell(0, 2) != Blocked {
		t.Fatal("blocking should replace the vehicle")
	}
	blocked, err = w.ToggleBlocked(ref, BlockInfo{})
	if err != nil || blocked {
		t.Fatalf("toggle off: %v %v", blocked, err)
	}
	if s.Cell(0, 2) != Empty {
		t.Fatal("cleared cell should be empty")
	}
	if err := w.ClearBlocked(ref); !errors.Is(err, ErrNotBlocked) {
		t.Fatalf("expected ErrNotBlocked, got %v", err)
	}
	if err := w.SetBlocked(CellRef{Street: "r", Index: 5}, BlockInfo{}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := w.SetBlocked(CellRef{Street: "x"}, BlockInfo{}); !errors.Is(err, ErrUnknownStreet) {
		t.Fatalf("expected ErrUnknownStreet, got %v", err)
	}
}

func TestBlockedCellStopsTraffic(t *testing.T) {
	w := newTestWorld(t)
	s := mustStreet(t, w, StreetSpec{ID: "r", Length: 6, Lanes: 1, Head: RoleGenerator, GenProbability: 1})
	if err := w.SetBlocked(CellRef{Street: "r", Index: 3}, BlockInfo{}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		w.StepAt(0)
	}
	for i := 0; i < 3; i++ {
		if !s.Cell(0, i).IsVehicle() {
			t.Fatalf("vehicles should queue behind the block, lane %v", s.Lane(0))
		}
	}
	for i := 4; i < 6; i++ {
		if s.Cell(0, i) != Empty {
			t.Fatalf("cell %d past the block = %v", i, s.Cell(0, i))
		}
	}
	if w.Stats().Total.Exited != 0 {
		t.Fatal("nothing should pass the block")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := buildTestLayout(t, "junction")
	if err := src.SetBlocked(CellRef{Street: "exit", Lane: 0, Index: 7}, BlockInfo{Label: "crash", Tick: 4}); err != nil {
		t.Fatal(err)
	}
	if err := src.AddBindingPair("depot",
		CellRef{Street: "exit", Lane: 1, Index: 3},
		CellRef{Street: "exit", Lane: 1, Index: 6}); err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(src.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}
	dst := buildTestLayout(t, "junction")
	if err := dst.ApplySnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dst.BlockedCells(), src.BlockedCells()) {
		t.Fatalf("blocked cells differ:\n%v\n%v", dst.BlockedCells(), src.BlockedCells())
	}
	if !reflect.DeepEqual(dst.Snapshot(), src.Snapshot()) {
		t.Fatal("parking configuration did not survive the round trip")
	}
	if !dst.IsBlocked(CellRef{Street: "exit", Lane: 0, Index: 7}) {
		t.Fatal("restored block missing from the grid")
	}
}

func TestApplySnapshotClearsRemovedBlocks(t *testing.T) {
	w := buildTestLayout(t, "junction")
	roadworks := CellRef{Street: "avenue", Lane: 1, Index: 35}
	if err := w.ApplySnapshot(Snapshot{}); err != nil {
		t.Fatal(err)
	}
	if w.IsBlocked(roadworks) || w.Street("avenue").Cell(1, 35) != Empty {
		t.Fatal("blocks absent from the snapshot should be cleared")
	}
	if len(w.Parkings()) != 0 {
		t.Fatal("parkings absent from the snapshot should be removed")
	}
}

func TestApplySnapshotRejectsInvalid(t *testing.T) {
	cases := map[string]Snapshot{
		"bad key":       {Blocked: map[string]BlockInfo{"avenue": {}}},
		"unknown cell":  {Blocked: map[string]BlockInfo{"avenue:0:50": {}}},
		"missing id":    {Parkings: []ParkingConfig{{Capacity: 1}}},
		"duplicate id":  {Parkings: []ParkingConfig{{ID: "a", Capacity: 1}, {ID: "a", Capacity: 1}}},
		"bad parking":   {Parkings: []ParkingConfig{{ID: "a", Capacity: 1, Occupancy: 2}}},
		"unknown bound": {Parkings: []ParkingConfig{{ID: "a", Capacity: 1, Bindings: []Binding{{Role: BindingEntry, CellRef: CellRef{Street: "x"}}, {Role: BindingExit, CellRef: CellRef{Street: "x"}}}}}},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			w := buildTestLayout(t, "junction")
			before := w.Snapshot()
			if err := w.ApplySnapshot(snap); err == nil {
				t.Fatal("expected an error")
			}
			if !reflect.DeepEqual(w.Snapshot(), before) {
				t.Fatal("rejected snapshot modified the world")
			}
		})
	}
}
