package traffic

import (
	"strings"

	"github.com/pkg/errors"

	"mad-traffic/internal/core"
	pcore "mad-traffic/pkg/core"
)

// Role describes how a street end participates in the network.
type Role uint8

const (
	// RoleSink discards vehicles at the tail and admits nothing at the head.
	RoleSink Role = iota
	// RoleGenerator injects vehicles at the head.
	RoleGenerator
	// RoleConnector joins the street end to another street via a Connection.
	RoleConnector
)

var roleNames = [...]string{
	RoleSink:      "sink",
	RoleGenerator: "generator",
	RoleConnector: "connector",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	if int(r) >= len(roleNames) {
		return nil, errors.Errorf("unknown role %d", r)
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range roleNames {
		if n == name {
			*r = Role(i)
			return nil
		}
	}
	return errors.Errorf("unknown role %q", name)
}

// Placement locates a street on the renderer's canvas. The simulation never
// reads it.
type Placement struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// PointAt returns the canvas position of the center of cell index on a street
// of the given length.
func (p Placement) PointAt(index, length int) (float64, float64) {
	if length <= 0 {
		return p.X1, p.Y1
	}
	t := (float64(index) + 0.5) / float64(length)
	return p.X1 + (p.X2-p.X1)*t, p.Y1 + (p.Y2-p.Y1)*t
}

// StreetSpec describes a street to create.
type StreetSpec struct {
	ID             string    `json:"id"`
	Length         int       `json:"length"`
	Lanes          int       `json:"lanes"`
	Head           Role      `json:"head"`
	Tail           Role      `json:"tail"`
	GenProbability float64   `json:"gen_probability"`
	Placement      Placement `json:"placement"`
}

func (s StreetSpec) validate() error {
	switch {
	case s.Length <= 0:
		return errors.Wrapf(ErrInvalidStreet, "street %q: length %d must be positive", s.ID, s.Length)
	case s.Lanes <= 0:
		return errors.Wrapf(ErrInvalidStreet, "street %q: lane count %d must be positive", s.ID, s.Lanes)
	case s.Head > RoleConnector || s.Tail > RoleConnector:
		return errors.Wrapf(ErrInvalidStreet, "street %q: unknown role", s.ID)
	case s.GenProbability < 0 || s.GenProbability > 1:
		return errors.Wrapf(ErrInvalidProbability, "street %q: generation probability %g", s.ID, s.GenProbability)
	}
	return nil
}

// Street is a road segment: one fixed-length cell array per lane.
type Street struct {
	spec StreetSpec

	cur *core.ByteGrid
	nxt *core.ByteGrid

	// held marks lanes whose terminal cell waits for an outgoing connection
	// instead of discarding its vehicle.
	held []bool
}

// NewStreet builds a street with every cell empty.
func NewStreet(spec StreetSpec) (*Street, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &Street{
		spec: spec,
		cur:  core.NewByteGrid(spec.Length, spec.Lanes),
		nxt:  core.NewByteGrid(spec.Length, spec.Lanes),
		held: make([]bool, spec.Lanes),
	}, nil
}

// ID returns the street identifier.
func (s *Street) ID() string { return s.spec.ID }

// Spec returns the street's creation parameters.
func (s *Street) Spec() StreetSpec { return s.spec }

// Length returns the number of cells per lane.
func (s *Street) Length() int { return s.spec.Length }

// Lanes returns the number of lanes.
func (s *Street) Lanes() int { return s.spec.Lanes }

// Head returns the role of the street's first cell.
func (s *Street) Head() Role { return s.spec.Head }

// Tail returns the role of the street's last cell.
func (s *Street) Tail() Role { return s.spec.Tail }

// GenProbability returns the per-tick, per-lane injection probability.
func (s *Street) GenProbability() float64 { return s.spec.GenProbability }

// Placement returns the renderer geometry.
func (s *Street) Placement() Placement { return s.spec.Placement }

// Contains reports whether (lane, index) addresses a cell of the street.
func (s *Street) Contains(lane, index int) bool { return s.cur.In(index, lane) }

// Cell returns the value at (lane, index).
func (s *Street) Cell(lane, index int) Cell { return Cell(s.cur.At(index, lane)) }

// Lane returns a copy of the lane's cells.
func (s *Street) Lane(lane int) []Cell {
	row := s.cur.Row(lane)
	out := make([]Cell, len(row))
	for i, v := range row {
		out[i] = Cell(v)
	}
	return out
}

// Vehicles counts the vehicles currently on the street.
func (s *Street) Vehicles() int {
	n := 0
	for _, v := range s.cur.Cells() {
		if Cell(v).IsVehicle() {
			n++
		}
	}
	return n
}

func (s *Street) set(lane, index int, c Cell) { s.cur.Set(index, lane, uint8(c)) }

func (s *Street) terminal() int { return s.spec.Length - 1 }

// clear empties every cell except blocked ones.
func (s *Street) clear() {
	cells := s.cur.Cells()
	for i, v := range cells {
		if Cell(v) != Blocked {
			cells[i] = uint8(Empty)
		}
	}
}

// step advances every lane by one tick. Each lane is computed from its
// pre-tick snapshot into the spare buffer, then the buffers swap.
func (s *Street) step(rng *pcore.RNG, c *Counters) {
	last := s.terminal()
	for l := 0; l < s.spec.Lanes; l++ {
		src := s.cur.Row(l)
		dst := s.nxt.Row(l)
		for i := 0; i <= last; i++ {
			left := Empty
			if i > 0 {
				left = Cell(src[i-1])
			}
			right := Empty
			if i < last {
				right = Cell(src[i+1])
			} else if s.held[l] {
				right = Blocked
			}
			dst[i] = uint8(Next(left, Cell(src[i]), right))
		}
		if !s.held[l] && Cell(src[last]).IsVehicle() {
			c.Exited++
		}
		if s.spec.Head == RoleGenerator && Cell(dst[0]) == Empty {
			if rng.Chance(s.spec.GenProbability) {
				dst[0] = rng.VehicleClass()
				c.Generated++
			}
		}
	}
	s.cur, s.nxt = s.nxt, s.cur
}
