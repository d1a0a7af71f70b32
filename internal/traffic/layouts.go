package traffic

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"mad-traffic/internal/core"
)

// LayoutFunc populates an empty world with streets, connections and parkings.
type LayoutFunc func(w *World) error

var layouts = map[string]LayoutFunc{
	"corridor": corridorLayout,
	"junction": junctionLayout,
	"ring":     ringLayout,
}

// LayoutNames lists the built-in layouts in sorted order.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildLayout returns a world populated with the named built-in layout.
func BuildLayout(name string, cfg Config, opts ...Option) (*World, error) {
	fn, ok := layouts[name]
	if !ok {
		return nil, errors.Errorf("unknown layout %q", name)
	}
	w := NewWorld(cfg, opts...)
	if err := fn(w); err != nil {
		return nil, errors.Wrapf(err, "layout %q", name)
	}
	return w, nil
}

// rushProfile returns a profile with default base and value peak at each of
// the given hours.
func rushProfile(base, peak float64, hours ...int) (Profile, error) {
	p := NewProfile(base)
	for _, h := range hours {
		if err := p.Set(h, peak); err != nil {
			return Profile{}, errors.Wrapf(err, "rush hour %d", h)
		}
	}
	return p, nil
}

func corridorLayout(w *World) error {
	gen := w.cfg.GenProbability
	streets := []StreetSpec{
		{ID: "approach", Length: 48, Lanes: 2, Head: RoleGenerator, Tail: RoleConnector, GenProbability: gen,
			Placement: Placement{X1: 0, Y1: 0, X2: 48, Y2: 0}},
		{ID: "main", Length: 64, Lanes: 2, Head: RoleConnector, Tail: RoleSink,
			Placement: Placement{X1: 48, Y1: 0, X2: 112, Y2: 0}},
	}
	for _, spec := range streets {
		if _, err := w.AddStreet(spec); err != nil {
			return err
		}
	}
	if err := w.Connect("approach", "main"); err != nil {
		return err
	}
	entry, err := rushProfile(0.25, 0.6, 8, 9, 10, 12, 13)
	if err != nil {
		return err
	}
	exit, err := rushProfile(0.15, 0.55, 12, 13, 17, 18, 19)
	if err != nil {
		return err
	}
	_, err = w.AddParking(ParkingConfig{
		ID:       "mall",
		Capacity: 30,
		Entry:    entry,
		Exit:     exit,
		Bindings: []Binding{
			{Role: BindingEntry, CellRef: CellRef{Street: "main", Lane: 1, Index: 20}},
			{Role: BindingExit, CellRef: CellRef{Street: "main", Lane: 1, Index: 24}},
			{Role: BindingEntry, CellRef: CellRef{Street: "main", Lane: 0, Index: 40}},
			{Role: BindingExit, CellRef: CellRef{Street: "main", Lane: 0, Index: 44}},
		},
	})
	return err
}

// junctionLayout joins two approaches onto one avenue. Each approach keeps
// one lane on the avenue and turns its other lane off onto a side street.
func junctionLayout(w *World) error {
	gen := w.cfg.GenProbability
	streets := []StreetSpec{
		{ID: "north", Length: 30, Lanes: 2, Head: RoleGenerator, Tail: RoleConnector, GenProbability: gen,
			Placement: Placement{X1: 20, Y1: -30, X2: 30, Y2: 0}},
		{ID: "south", Length: 30, Lanes: 2, Head: RoleGenerator, Tail: RoleConnector, GenProbability: gen,
			Placement: Placement{X1: 20, Y1: 30, X2: 30, Y2: 0}},
		{ID: "avenue", Length: 50, Lanes: 2, Head: RoleConnector, Tail: RoleConnector,
			Placement: Placement{X1: 30, Y1: 0, X2: 80, Y2: 0}},
		{ID: "exit", Length: 30, Lanes: 2, Head: RoleConnector, Tail: RoleSink,
			Placement: Placement{X1: 80, Y1: 0, X2: 110, Y2: 0}},
		{ID: "west", Length: 20, Lanes: 2, Head: RoleConnector, Tail: RoleSink,
			Placement: Placement{X1: 30, Y1: 0, X2: 10, Y2: -10}},
		{ID: "east", Length: 20, Lanes: 2, Head: RoleConnector, Tail: RoleSink,
			Placement: Placement{X1: 30, Y1: 0, X2: 50, Y2: 20}},
	}
	for _, spec := range streets {
		if _, err := w.AddStreet(spec); err != nil {
			return err
		}
	}
	links := []ConnectionSpec{
		LaneLink("north", 0, "avenue", 0),
		LaneLink("north", 1, "west", 1),
		LaneLink("south", 1, "avenue", 1),
		LaneLink("south", 0, "east", 0),
	}
	for _, link := range links {
		if _, err := w.AddConnection(link); err != nil {
			return err
		}
	}
	if err := w.Connect("avenue", "exit"); err != nil {
		return err
	}
	if err := w.SetBlocked(CellRef{Street: "avenue", Lane: 1, Index: 35}, BlockInfo{Label: "roadworks"}); err != nil {
		return err
	}
	exit, err := rushProfile(0.1, 0.5, 6, 7, 8)
	if err != nil {
		return err
	}
	_, err = w.AddParking(ParkingConfig{
		ID:       "depot",
		Capacity: 12,
		Entry:    NewProfile(0.2),
		Exit:     exit,
		Bindings: []Binding{
			{Role: BindingEntry, CellRef: CellRef{Street: "avenue", Lane: 0, Index: 10}},
			{Role: BindingExit, CellRef: CellRef{Street: "avenue", Lane: 0, Index: 14}},
		},
	})
	return err
}

// ringLayout is a closed loop fed only by a full garage.
func ringLayout(w *World) error {
	streets := []StreetSpec{
		{ID: "ring-east", Length: 40, Lanes: 2, Head: RoleConnector, Tail: RoleConnector,
			Placement: Placement{X1: 0, Y1: 0, X2: 40, Y2: 0}},
		{ID: "ring-west", Length: 40, Lanes: 2, Head: RoleConnector, Tail: RoleConnector,
			Placement: Placement{X1: 40, Y1: 10, X2: 0, Y2: 10}},
	}
	for _, spec := range streets {
		if _, err := w.AddStreet(spec); err != nil {
			return err
		}
	}
	if err := w.Connect("ring-east", "ring-west"); err != nil {
		return err
	}
	if err := w.Connect("ring-west", "ring-east"); err != nil {
		return err
	}
	entry, err := rushProfile(0.05, 0.4, 17, 18, 19)
	if err != nil {
		return err
	}
	exit, err := rushProfile(0.05, 0.5, 7, 8, 9)
	if err != nil {
		return err
	}
	_, err = w.AddParking(ParkingConfig{
		ID:        "garage",
		Capacity:  40,
		Occupancy: 40,
		Entry:     entry,
		Exit:      exit,
		Bindings: []Binding{
			{Role: BindingEntry, CellRef: CellRef{Street: "ring-east", Lane: 0, Index: 5}},
			{Role: BindingExit, CellRef: CellRef{Street: "ring-east", Lane: 0, Index: 8}},
			{Role: BindingEntry, CellRef: CellRef{Street: "ring-east", Lane: 1, Index: 25}},
			{Role: BindingExit, CellRef: CellRef{Street: "ring-east", Lane: 1, Index: 28}},
		},
	})
	return err
}

func init() {
	core.Register("traffic", func(m map[string]string) core.Sim {
		cfg := FromMap(m)
		w, err := BuildLayout(cfg.Layout, cfg)
		if err != nil {
			logrus.WithError(err).Warn("falling back to corridor layout")
			w, _ = BuildLayout("corridor", cfg)
		}
		return w
	})
}
