package core

import "testing"

func TestByteGridRowsAreIndependentLanes(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Set(3, 0, 7)
	g.Row(1)[0] = 2

	if got := g.At(3, 0); got != 7 {
		t.Fatalf("At(3,0) = %d, want 7", got)
	}
	if got := g.At(0, 1); got != 2 {
		t.Fatalf("row write not visible, At(0,1) = %d", got)
	}
	if g.Row(2)[0] != 0 || g.Row(0)[0] != 0 {
		t.Fatal("writes leaked into neighbouring rows")
	}
	if len(g.Row(1)) != 4 {
		t.Fatalf("row length %d, want 4", len(g.Row(1)))
	}
}

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(5, 2)
	cases := []struct {
		x, y int
		in   bool
	}{
		{0, 0, true},
		{4, 1, true},
		{5, 0, false},
		{0, 2, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, tc := range cases {
		if got := g.In(tc.x, tc.y); got != tc.in {
			t.Errorf("In(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.in)
		}
	}
	if z := NewByteGrid(0, -3); z.W != 1 || z.H != 1 {
		t.Fatalf("degenerate grid should be 1x1, got %dx%d", z.W, z.H)
	}
}
