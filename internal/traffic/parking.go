package traffic

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	// HoursPerDay is the length of a parking probability profile.
	HoursPerDay = 24
	// MaxBindingPairs caps the entry/exit pairs of a single parking.
	MaxBindingPairs = 10

	// DefaultEntryProbability applies when a profile has neither an hourly
	// override nor its own default, or when the hour is invalid.
	DefaultEntryProbability = 0.3
	// DefaultExitProbability is the exit counterpart of DefaultEntryProbability.
	DefaultExitProbability = 0.2
)

// Profile is a 24-hour probability vector. Each hour carries an explicit
// present flag so an override of 0 is distinct from no override.
type Profile struct {
	hours      [HoursPerDay]float64
	set        [HoursPerDay]bool
	def        float64
	hasDefault bool
}

// NewProfile returns a profile with a default and no hourly overrides.
func NewProfile(def float64) Profile {
	return Profile{def: def, hasDefault: true}
}

// FlatProfile returns a profile with the same override for every hour.
func FlatProfile(p float64) Profile {
	pr := NewProfile(p)
	for h := range pr.hours {
		pr.hours[h] = p
		pr.set[h] = true
	}
	return pr
}

// Set installs an override for hour.
func (p *Profile) Set(hour int, v float64) error {
	if hour < 0 || hour >= HoursPerDay {
		return errors.Wrapf(ErrOutOfRange, "hour %d", hour)
	}
	if v < 0 || v > 1 {
		return errors.Wrapf(ErrInvalidProbability, "hour %d: %g", hour, v)
	}
	p.hours[hour] = v
	p.set[hour] = true
	return nil
}

// Unset removes the override for hour.
func (p *Profile) Unset(hour int) {
	if hour < 0 || hour >= HoursPerDay {
		return
	}
	p.hours[hour] = 0
	p.set[hour] = false
}

// Override returns the override for hour and whether one is present.
func (p Profile) Override(hour int) (float64, bool) {
	if hour < 0 || hour >= HoursPerDay || !p.set[hour] {
		return 0, false
	}
	return p.hours[hour], true
}

// Default returns the profile default and whether one is present.
func (p Profile) Default() (float64, bool) { return p.def, p.hasDefault }

// At resolves the probability for hour: the hourly override, else the
// profile default, else fallback.
func (p Profile) At(hour int, fallback float64) float64 {
	if v, ok := p.Override(hour); ok {
		return v
	}
	if p.hasDefault {
		return p.def
	}
	return fallback
}

func (p Profile) validate() error {
	if p.hasDefault && (p.def < 0 || p.def > 1) {
		return errors.Wrapf(ErrInvalidProbability, "default %g", p.def)
	}
	for h := range p.hours {
		if p.set[h] && (p.hours[h] < 0 || p.hours[h] > 1) {
			return errors.Wrapf(ErrInvalidProbability, "hour %d: %g", h, p.hours[h])
		}
	}
	return nil
}

type profileJSON struct {
	Default *float64        `json:"default,omitempty"`
	Hours   map[int]float64 `json:"hours,omitempty"`
}

// MarshalJSON writes only the present entries.
func (p Profile) MarshalJSON() ([]byte, error) {
	var out profileJSON
	if p.hasDefault {
		def := p.def
		out.Default = &def
	}
	for h := range p.hours {
		if !p.set[h] {
			continue
		}
		if out.Hours == nil {
			out.Hours = make(map[int]float64)
		}
		out.Hours[h] = p.hours[h]
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a profile; hours absent from the document stay unset.
func (p *Profile) UnmarshalJSON(b []byte) error {
	var in profileJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*p = Profile{}
	if in.Default != nil {
		p.def = *in.Default
		p.hasDefault = true
	}
	for h, v := range in.Hours {
		if err := p.Set(h, v); err != nil {
			return err
		}
	}
	return p.validate()
}

// BindingRole distinguishes the two kinds of parking binding.
type BindingRole uint8

const (
	// BindingEntry cells let passing vehicles into the parking.
	BindingEntry BindingRole = iota
	// BindingExit cells receive vehicles leaving the parking.
	BindingExit
)

func (r BindingRole) String() string {
	if r == BindingExit {
		return "exit"
	}
	return "entry"
}

// MarshalText encodes the role by name.
func (r BindingRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes "entry" or "exit".
func (r *BindingRole) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "entry":
		*r = BindingEntry
	case "exit":
		*r = BindingExit
	default:
		return errors.Errorf("unknown binding role %q", string(b))
	}
	return nil
}

// CellRef addresses a single street cell.
type CellRef struct {
	Street string `json:"street"`
	Lane   int    `json:"lane"`
	Index  int    `json:"index"`
}

// Binding ties a parking to a street cell.
type Binding struct {
	Role BindingRole `json:"role"`
	CellRef
}

// ParkingConfig is the serializable description of a parking.
type ParkingConfig struct {
	ID        string    `json:"id"`
	Capacity  int       `json:"capacity"`
	Occupancy int       `json:"occupancy"`
	Entry     Profile   `json:"entry"`
	Exit      Profile   `json:"exit"`
	Bindings  []Binding `json:"bindings"`
}

type boundCell struct {
	street *Street
	lane   int
	index  int
}

func (b boundCell) get() Cell  { return b.street.Cell(b.lane, b.index) }
func (b boundCell) put(c Cell) { b.street.set(b.lane, b.index, c) }

// Parking is a capacity-bounded absorber and emitter of vehicles.
type Parking struct {
	id        string
	capacity  int
	occupancy int
	entry     Profile
	exit      Profile
	bindings  []Binding

	entries []boundCell
	exits   []boundCell
}

// ID returns the parking identifier.
func (p *Parking) ID() string { return p.id }

// Capacity returns the maximum occupancy.
func (p *Parking) Capacity() int { return p.capacity }

// Occupancy returns the number of parked vehicles.
func (p *Parking) Occupancy() int { return p.occupancy }

// Bindings returns a copy of the declared bindings.
func (p *Parking) Bindings() []Binding { return append([]Binding(nil), p.bindings...) }

// Config returns the serializable description of the parking.
func (p *Parking) Config() ParkingConfig {
	return ParkingConfig{
		ID:        p.id,
		Capacity:  p.capacity,
		Occupancy: p.occupancy,
		Entry:     p.entry,
		Exit:      p.exit,
		Bindings:  p.Bindings(),
	}
}

// ResetOccupancy empties the parking.
func (p *Parking) ResetOccupancy() { p.occupancy = 0 }

// buildParking validates cfg and resolves its bindings. lookup must return
// nil for unknown streets.
func buildParking(cfg ParkingConfig, lookup func(string) *Street) (*Parking, error) {
	if cfg.Capacity < 0 {
		return nil, errors.Wrapf(ErrInvalidParking, "parking %q: capacity %d", cfg.ID, cfg.Capacity)
	}
	if cfg.Occupancy < 0 || cfg.Occupancy > cfg.Capacity {
		return nil, errors.Wrapf(ErrInvalidParking, "parking %q: occupancy %d outside [0,%d]", cfg.ID, cfg.Occupancy, cfg.Capacity)
	}
	if err := cfg.Entry.validate(); err != nil {
		return nil, errors.Wrapf(err, "parking %q entry profile", cfg.ID)
	}
	if err := cfg.Exit.validate(); err != nil {
		return nil, errors.Wrapf(err, "parking %q exit profile", cfg.ID)
	}
	entries := lo.CountBy(cfg.Bindings, func(b Binding) bool { return b.Role == BindingEntry })
	exits := len(cfg.Bindings) - entries
	if entries != exits {
		return nil, errors.Wrapf(ErrBindingCount, "parking %q: %d entry, %d exit", cfg.ID, entries, exits)
	}
	if entries > MaxBindingPairs {
		return nil, errors.Wrapf(ErrTooManyBindings, "parking %q: %d pairs, at most %d", cfg.ID, entries, MaxBindingPairs)
	}
	p := &Parking{
		id:        cfg.ID,
		capacity:  cfg.Capacity,
		occupancy: cfg.Occupancy,
		entry:     cfg.Entry,
		exit:      cfg.Exit,
		bindings:  append([]Binding(nil), cfg.Bindings...),
	}
	for i, b := range cfg.Bindings {
		s := lookup(b.Street)
		if s == nil {
			return nil, errors.Wrapf(ErrUnknownStreet, "parking %q binding %d: street %q", cfg.ID, i, b.Street)
		}
		if !s.Contains(b.Lane, b.Index) {
			return nil, errors.Wrapf(ErrOutOfRange, "parking %q binding %d: %s lane %d index %d", cfg.ID, i, b.Street, b.Lane, b.Index)
		}
		bc := boundCell{street: s, lane: b.Lane, index: b.Index}
		if b.Role == BindingEntry {
			p.entries = append(p.entries, bc)
		} else {
			p.exits = append(p.exits, bc)
		}
	}
	return p, nil
}

// updateParking runs the absorption pass over every entry cell, then the emission
// pass over every exit cell. The guards keep occupancy in [0, capacity].
func (w *World) updateParking(p *Parking, hour int, c *Counters) {
	entryP := p.entry.At(hour, w.cfg.DefaultEntryProb)
	exitP := p.exit.At(hour, w.cfg.DefaultExitProb)
	for _, b := range p.entries {
		if !b.get().IsVehicle() || p.occupancy >= p.capacity {
			continue
		}
		if w.rng.Chance(entryP) {
			p.occupancy++
			b.put(Empty)
			c.Absorbed++
		}
	}
	for _, b := range p.exits {
		if b.get() != Empty || p.occupancy <= 0 {
			continue
		}
		if w.rng.Chance(exitP) {
			p.occupancy--
			b.put(Cell(w.rng.VehicleClass()))
			c.Emitted++
		}
	}
}

