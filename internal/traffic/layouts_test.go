package traffic

import (
	"testing"

	"github.com/pkg/errors"

	"mad-traffic/internal/core"
)

func TestLayoutsBuildAndRun(t *testing.T) {
	for _, name := range LayoutNames() {
		t.Run(name, func(t *testing.T) {
			w := buildTestLayout(t, name)
			if len(w.Streets()) == 0 || len(w.Parkings()) == 0 {
				t.Fatalf("layout %s is missing streets or parkings", name)
			}
			for i := 0; i < 100; i++ {
				w.Step()
			}
			if w.Tick() != 100 {
				t.Fatalf("tick = %d", w.Tick())
			}
		})
	}
}

func TestBuildLayoutUnknown(t *testing.T) {
	if _, err := BuildLayout("maze", DefaultConfig()); err == nil {
		t.Fatal("expected an error for an unknown layout")
	}
}

func TestRegistryBuildsTrafficWorld(t *testing.T) {
	factory, ok := core.Sims()["traffic"]
	if !ok {
		t.Fatal("traffic is not registered")
	}
	sim := factory(map[string]string{"layout": "ring", "seed": "3"})
	w, ok := sim.(*World)
	if !ok {
		t.Fatalf("factory returned %T", sim)
	}
	if w.Street("ring-east") == nil || w.Config().Seed != 3 {
		t.Fatal("factory ignored its configuration")
	}
	if _, ok := sim.(core.PaletteProvider); !ok {
		t.Fatal("world should provide a palette")
	}
	if len(w.Palette()) <= int(Blocked) {
		t.Fatal("palette must cover every cell state")
	}
}

func TestRushProfile(t *testing.T) {
	p, err := rushProfile(0.1, 0.5, 7, 8)
	if err != nil {
		t.Fatal(err)
	}
	if p.At(7, 0) != 0.5 || p.At(12, 0) != 0.1 {
		t.Fatalf("profile = %g at 7, %g at 12", p.At(7, 0), p.At(12, 0))
	}
	if _, err := rushProfile(0.1, 0.5, 7, 24); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for hour 24, got %v", err)
	}
	if _, err := rushProfile(0.1, 1.5, 7); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
}

func TestJunctionLinksKeepLaneIndex(t *testing.T) {
	w := buildTestLayout(t, "junction")
	for _, c := range w.Connections() {
		spec := c.Spec()
		if spec.FromLane != spec.ToLane || c.From().Lanes() != c.To().Lanes() {
			t.Fatalf("connection %+v joins mismatched lanes", spec)
		}
	}
	if got := len(w.Connections()); got != 6 {
		t.Fatalf("connections = %d, want 6", got)
	}
}
