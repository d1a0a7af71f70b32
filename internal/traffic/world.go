package traffic

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	pcore "mad-traffic/pkg/core"
)

// World owns every street, connection, parking and blocked cell of a run.
// It has a single writer: all mutating methods must be called from the tick
// driver's goroutine.
type World struct {
	cfg   Config
	log   *logrus.Entry
	rng   *pcore.RNG
	clock Clock

	streets     []*Street
	streetByID  map[string]*Street
	connections []*Connection
	parkings    []*Parking
	parkingByID map[string]*Parking
	blocked     map[string]BlockInfo

	tick    uint64
	hour    int
	started bool
	stats   Stats

	layout  displayLayout
	display []uint8
}

// Option customizes a World at construction.
type Option func(*World)

// WithLogger routes the world's log output through entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(w *World) {
		if entry != nil {
			w.log = entry
		}
	}
}

// NewWorld returns an empty world.
func NewWorld(cfg Config, opts ...Option) *World {
	w := &World{
		cfg:         cfg,
		log:         logrus.NewEntry(logrus.StandardLogger()),
		rng:         pcore.NewRNG(cfg.Seed),
		clock:       Clock{TicksPerHour: cfg.TicksPerHour, StartHour: cfg.StartHour},
		streetByID:  make(map[string]*Street),
		parkingByID: make(map[string]*Parking),
		blocked:     make(map[string]BlockInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.hour = w.clock.HourAt(0)
	w.rebuildDisplay()
	return w
}

// Config returns the world configuration.
func (w *World) Config() Config { return w.cfg }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Hour returns the hour used by the most recent tick, or the starting hour
// before the first one.
func (w *World) Hour() int { return w.hour }

// Started reports whether a tick has run since construction or the last Reset.
func (w *World) Started() bool { return w.started }

// AddStreet creates a street. Streets can only be added before the first tick.
func (w *World) AddStreet(spec StreetSpec) (*Street, error) {
	if w.started {
		return nil, errors.Wrapf(ErrRunning, "add street %q", spec.ID)
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if _, ok := w.streetByID[spec.ID]; ok {
		return nil, errors.Wrapf(ErrDuplicateID, "street %q", spec.ID)
	}
	s, err := NewStreet(spec)
	if err != nil {
		return nil, err
	}
	w.streets = append(w.streets, s)
	w.streetByID[spec.ID] = s
	w.rebuildDisplay()
	w.log.WithFields(logrus.Fields{
		"street": spec.ID,
		"length": spec.Length,
		"lanes":  spec.Lanes,
		"head":   spec.Head.String(),
		"tail":   spec.Tail.String(),
	}).Debug("street added")
	return s, nil
}

// RemoveStreet deletes a street that no connection or parking references.
// Blocked cells on the street are dropped with it.
func (w *World) RemoveStreet(id string) error {
	if w.started {
		return errors.Wrapf(ErrRunning, "remove street %q", id)
	}
	s, ok := w.streetByID[id]
	if !ok {
		return errors.Wrapf(ErrUnknownStreet, "remove street %q", id)
	}
	for _, c := range w.connections {
		if c.from == s || c.to == s {
			return errors.Wrapf(ErrInUse, "street %q: connection %s->%s", id, c.from.ID(), c.to.ID())
		}
	}
	for _, p := range w.parkings {
		for _, b := range p.bindings {
			if b.Street == id {
				return errors.Wrapf(ErrInUse, "street %q: parking %q", id, p.id)
			}
		}
	}
	for key := range w.blocked {
		if ref, err := ParseBlockedKey(key); err == nil && ref.Street == id {
			delete(w.blocked, key)
		}
	}
	w.streets = lo.Without(w.streets, s)
	delete(w.streetByID, id)
	w.rebuildDisplay()
	return nil
}

// Street returns the street with the given id, or nil.
func (w *World) Street(id string) *Street { return w.streetByID[id] }

// Streets returns the streets in creation order.
func (w *World) Streets() []*Street { return append([]*Street(nil), w.streets...) }

// AddConnection creates a single per-lane connection.
func (w *World) AddConnection(spec ConnectionSpec) (*Connection, error) {
	if w.started {
		return nil, errors.Wrapf(ErrRunning, "connect %s->%s", spec.From, spec.To)
	}
	from, to, err := w.connectionEnds(spec.From, spec.To)
	if err != nil {
		return nil, err
	}
	c, err := newConnection(spec, from, to, w.connections)
	if err != nil {
		return nil, err
	}
	w.connections = append(w.connections, c)
	w.refreshHeld()
	return c, nil
}

// ConnectLane links the terminal cell of one lane to the head of the same
// lane on another street.
func (w *World) ConnectLane(from string, fromLane int, to string, toLane int) error {
	_, err := w.AddConnection(LaneLink(from, fromLane, to, toLane))
	return err
}

// Connect links every lane of from to the same lane of to. Both streets must
// have the same lane count. Either every lane is connected or none is.
func (w *World) Connect(from, to string) error {
	if w.started {
		return errors.Wrapf(ErrRunning, "connect %s->%s", from, to)
	}
	src, dst, err := w.connectionEnds(from, to)
	if err != nil {
		return err
	}
	if src.Lanes() != dst.Lanes() {
		return errors.Wrapf(ErrLaneMismatch, "connection %s->%s: %d lanes vs %d", from, to, src.Lanes(), dst.Lanes())
	}
	pending := append([]*Connection(nil), w.connections...)
	for l := 0; l < src.Lanes(); l++ {
		c, err := newConnection(LaneLink(from, l, to, l), src, dst, pending)
		if err != nil {
			return err
		}
		pending = append(pending, c)
	}
	w.connections = pending
	w.refreshHeld()
	w.log.WithFields(logrus.Fields{"from": from, "to": to, "lanes": src.Lanes()}).Debug("streets connected")
	return nil
}

// RemoveConnection deletes the connection draining from's lane.
func (w *World) RemoveConnection(from string, fromLane int) error {
	if w.started {
		return errors.Wrapf(ErrRunning, "disconnect %s lane %d", from, fromLane)
	}
	_, idx, ok := lo.FindIndexOf(w.connections, func(c *Connection) bool {
		return c.from.ID() == from && c.fromLane == fromLane
	})
	if !ok {
		return errors.Wrapf(ErrUnknownLink, "%s lane %d", from, fromLane)
	}
	w.connections = append(w.connections[:idx:idx], w.connections[idx+1:]...)
	w.refreshHeld()
	return nil
}

// Connections returns the connections in application order.
func (w *World) Connections() []*Connection { return append([]*Connection(nil), w.connections...) }

func (w *World) connectionEnds(from, to string) (*Street, *Street, error) {
	src, ok := w.streetByID[from]
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownStreet, "connection %s->%s: source %q", from, to, from)
	}
	dst, ok := w.streetByID[to]
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownStreet, "connection %s->%s: destination %q", from, to, to)
	}
	return src, dst, nil
}

// refreshHeld marks the lanes whose terminal cell is drained by a connection.
// Unconnected lanes discard vehicles like a sink.
func (w *World) refreshHeld() {
	for _, s := range w.streets {
		for l := range s.held {
			s.held[l] = false
		}
	}
	for _, c := range w.connections {
		if c.holdsTerminal() {
			c.from.held[c.fromLane] = true
		}
	}
}

// AddParking creates a parking from cfg.
func (w *World) AddParking(cfg ParkingConfig) (*Parking, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if _, ok := w.parkingByID[cfg.ID]; ok {
		return nil, errors.Wrapf(ErrDuplicateID, "parking %q", cfg.ID)
	}
	p, err := buildParking(cfg, w.Street)
	if err != nil {
		w.log.WithError(err).Warn("parking rejected")
		return nil, err
	}
	w.parkings = append(w.parkings, p)
	w.parkingByID[p.id] = p
	return p, nil
}

// RemoveParking deletes a parking and its bindings.
func (w *World) RemoveParking(id string) error {
	p, ok := w.parkingByID[id]
	if !ok {
		return errors.Wrapf(ErrUnknownParking, "%q", id)
	}
	w.parkings = lo.Without(w.parkings, p)
	delete(w.parkingByID, id)
	return nil
}

// Parking returns the parking with the given id, or nil.
func (w *World) Parking(id string) *Parking { return w.parkingByID[id] }

// Parkings returns the parkings in creation order.
func (w *World) Parkings() []*Parking { return append([]*Parking(nil), w.parkings...) }

// AddBindingPair binds one more entry/exit pair to a parking.
func (w *World) AddBindingPair(id string, entry, exit CellRef) error {
	p, ok := w.parkingByID[id]
	if !ok {
		return errors.Wrapf(ErrUnknownParking, "%q", id)
	}
	cfg := p.Config()
	cfg.Bindings = append(cfg.Bindings,
		Binding{Role: BindingEntry, CellRef: entry},
		Binding{Role: BindingExit, CellRef: exit},
	)
	return w.replaceParking(p, cfg)
}

// RemoveBindingPair unbinds the pair-th entry binding and the pair-th exit
// binding of a parking.
func (w *World) RemoveBindingPair(id string, pair int) error {
	p, ok := w.parkingByID[id]
	if !ok {
		return errors.Wrapf(ErrUnknownParking, "%q", id)
	}
	if pair < 0 || pair >= len(p.entries) {
		return errors.Wrapf(ErrOutOfRange, "parking %q: binding pair %d of %d", id, pair, len(p.entries))
	}
	cfg := p.Config()
	var entries, exits int
	cfg.Bindings = lo.Filter(cfg.Bindings, func(b Binding, _ int) bool {
		if b.Role == BindingEntry {
			entries++
			return entries-1 != pair
		}
		exits++
		return exits-1 != pair
	})
	return w.replaceParking(p, cfg)
}

func (w *World) replaceParking(old *Parking, cfg ParkingConfig) error {
	p, err := buildParking(cfg, w.Street)
	if err != nil {
		return err
	}
	_, idx, _ := lo.FindIndexOf(w.parkings, func(x *Parking) bool { return x == old })
	w.parkings[idx] = p
	w.parkingByID[p.id] = p
	return nil
}

// StepAt advances the world by one tick using hour for the parking
// probabilities. The phases run as a strict sequence: every street updates,
// then every connection transfers, then every parking absorbs and emits.
func (w *World) StepAt(hour int) Counters {
	if !w.started {
		w.started = true
		w.lint()
	}
	var c Counters
	for _, s := range w.streets {
		s.step(w.rng, &c)
	}
	for _, conn := range w.connections {
		switch conn.transfer() {
		case transferMoved:
			c.Transferred++
		case transferBlocked:
			c.Backpressured++
		}
	}
	for _, p := range w.parkings {
		w.updateParking(p, hour, &c)
	}
	w.tick++
	w.hour = hour
	w.stats.Ticks = w.tick
	w.stats.Hour = hour
	w.stats.Last = c
	w.stats.Total.Add(c)
	w.refreshDisplay()
	return c
}

// Step advances the world by one tick at the hour given by its clock.
func (w *World) Step() {
	w.StepAt(w.clock.HourAt(w.tick))
}

// Reset empties every street except blocked cells, empties every parking
// and rewinds the clock. A zero seed reuses the configured seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Reseed(effective)
	for _, s := range w.streets {
		s.clear()
	}
	for _, p := range w.parkings {
		p.ResetOccupancy()
	}
	w.tick = 0
	w.hour = w.clock.HourAt(0)
	w.started = false
	w.stats = Stats{}
	w.refreshDisplay()
}

// Populate scatters random vehicles over every free cell of every street
// with probability density. Blocked cells are kept.
func (w *World) Populate(density float64) {
	for _, s := range w.streets {
		for l := 0; l < s.Lanes(); l++ {
			row := s.cur.Row(l)
			buf := make([]uint8, len(row))
			pcore.FillClasses(w.rng.Source(), buf, density)
			for i, v := range buf {
				if Cell(row[i]) != Blocked {
					row[i] = v
				}
			}
		}
	}
	w.refreshDisplay()
}

// Stats returns counters for the last tick and the whole run together with
// the current vehicle and parked totals.
func (w *World) Stats() Stats {
	st := w.stats
	st.Hour = w.hour
	st.Vehicles = lo.SumBy(w.streets, func(s *Street) int { return s.Vehicles() })
	st.Parked = lo.SumBy(w.parkings, func(p *Parking) int { return p.occupancy })
	return st
}

// lint logs network problems that do not prevent a run.
func (w *World) lint() {
	for _, id := range w.Unreachable() {
		w.log.WithField("street", id).Warn("street unreachable from any vehicle source")
	}
	for _, s := range w.streets {
		if s.Tail() != RoleConnector {
			continue
		}
		for l, held := range s.held {
			if !held {
				w.log.WithFields(logrus.Fields{"street": s.ID(), "lane": l}).Warn("connector lane has no outgoing connection; vehicles leave as at a sink")
			}
		}
	}
}
