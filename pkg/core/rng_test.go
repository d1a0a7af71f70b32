package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(5)
	b := NewRNG(5)
	for i := 0; i < 100; i++ {
		if a.VehicleClass() != b.VehicleClass() {
			t.Fatalf("draw %d differs for equal seeds", i)
		}
	}
	a.Reseed(5)
	c := NewRNG(5)
	if a.Uint8n(200) != c.Uint8n(200) {
		t.Fatal("reseed should restart the stream")
	}
}

func TestVehicleClassRange(t *testing.T) {
	r := NewRNG(11)
	seen := map[uint8]bool{}
	for i := 0; i < 2000; i++ {
		v := r.VehicleClass()
		if v < 1 || v > VehicleClasses {
			t.Fatalf("class %d outside [1,%d]", v, VehicleClasses)
		}
		seen[v] = true
	}
	if len(seen) != VehicleClasses {
		t.Fatalf("saw %d classes, want %d", len(seen), VehicleClasses)
	}
}

func TestChanceBounds(t *testing.T) {
	r := NewRNG(3)
	for i := 0; i < 1000; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
	if r.Uint8n(0) != 0 {
		t.Fatal("Uint8n(0) should be 0")
	}
}

func TestFillClasses(t *testing.T) {
	r := NewRNG(8)
	buf := make([]uint8, 64)
	FillClasses(r.Source(), buf, 1)
	for i, v := range buf {
		if v < 1 || v > VehicleClasses {
			t.Fatalf("cell %d = %d with density 1", i, v)
		}
	}
	FillClasses(r.Source(), buf, 0)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("cell %d = %d with density 0", i, v)
		}
	}
}
