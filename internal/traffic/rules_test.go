package traffic

import "testing"

func TestRuleTableIsTotal(t *testing.T) {
	for l := Cell(0); l < cellStates; l++ {
		for c := Cell(0); c < cellStates; c++ {
			for r := Cell(0); r < cellStates; r++ {
				next := Next(l, c, r)
				if !next.Valid() {
					t.Fatalf("(%d,%d,%d) -> %d outside the cell set", l, c, r, next)
				}
				if c == Blocked && next != Blocked {
					t.Fatalf("(%d,%d,%d): blocked cell changed to %d", l, c, r, next)
				}
				if next != Empty && next != c && next != l {
					t.Fatalf("(%d,%d,%d) -> %d: value appeared from nowhere", l, c, r, next)
				}
				if next == Blocked && c != Blocked {
					t.Fatalf("(%d,%d,%d): blocked propagated", l, c, r)
				}
			}
		}
	}
}

func TestRuleCases(t *testing.T) {
	cases := []struct {
		name                string
		left, center, right Cell
		want                Cell
	}{
		{"empty stays empty", Empty, Empty, Empty, Empty},
		{"vehicle moves in", 3, Empty, Empty, 3},
		{"vehicle moves in before blockage", 3, Empty, Blocked, 3},
		{"vehicle moves in before queue", 6, Empty, 2, 6},
		{"blocked left does not move", Blocked, Empty, Empty, Empty},
		{"vehicle leaves", Empty, 4, Empty, Empty},
		{"vehicle waits behind vehicle", Empty, 4, 1, 4},
		{"vehicle waits behind blockage", 2, 4, Blocked, 4},
		{"blocked stays blocked", 5, Blocked, Empty, Blocked},
		{"classes do not convert", 1, 2, 3, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.left, tc.center, tc.right); got != tc.want {
				t.Fatalf("Next(%d,%d,%d) = %d, want %d", tc.left, tc.center, tc.right, got, tc.want)
			}
		})
	}
}

func TestNextPanicsOutsideCellSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for cell value 9")
		}
	}()
	Next(Empty, Cell(9), Empty)
}

func TestCellPredicates(t *testing.T) {
	if Empty.IsVehicle() || Blocked.IsVehicle() {
		t.Fatal("empty and blocked are not vehicles")
	}
	for c := Cell(1); c <= VehicleClasses; c++ {
		if !c.IsVehicle() {
			t.Fatalf("class %d should be a vehicle", c)
		}
	}
	if Cell(8).Valid() {
		t.Fatal("8 is outside the cell set")
	}
}
