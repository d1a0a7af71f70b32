package traffic

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	return NewWorld(cfg, WithLogger(quietLogger()))
}

func mustStreet(t *testing.T, w *World, spec StreetSpec) *Street {
	t.Helper()
	s, err := w.AddStreet(spec)
	if err != nil {
		t.Fatalf("add street %q: %v", spec.ID, err)
	}
	return s
}

func setLane(s *Street, lane int, cells ...Cell) {
	row := s.cur.Row(lane)
	for i := range row {
		row[i] = uint8(Empty)
		if i < len(cells) {
			row[i] = uint8(cells[i])
		}
	}
}

func laneEquals(s *Street, lane int, want ...Cell) bool {
	got := s.Lane(lane)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func totalVehicles(w *World) int {
	n := 0
	for _, s := range w.Streets() {
		n += s.Vehicles()
	}
	return n
}
