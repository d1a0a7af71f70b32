package traffic

import "github.com/pkg/errors"

// ConnectionSpec describes a directed per-lane link. Negative indices count
// from the end of the street, so -1 addresses the terminal cell.
type ConnectionSpec struct {
	From      string `json:"from"`
	FromLane  int    `json:"from_lane"`
	FromIndex int    `json:"from_index"`
	To        string `json:"to"`
	ToLane    int    `json:"to_lane"`
	ToIndex   int    `json:"to_index"`
}

// LaneLink returns the usual spec joining the terminal cell of from's lane to
// the head cell of to's lane.
func LaneLink(from string, fromLane int, to string, toLane int) ConnectionSpec {
	return ConnectionSpec{From: from, FromLane: fromLane, FromIndex: -1, To: to, ToLane: toLane, ToIndex: 0}
}

// Connection moves a vehicle from a source cell to a destination cell when
// the destination is free.
type Connection struct {
	from      *Street
	fromLane  int
	fromIndex int
	to        *Street
	toLane    int
	toIndex   int
}

// Spec returns the connection with resolved, non-negative indices.
func (c *Connection) Spec() ConnectionSpec {
	return ConnectionSpec{
		From:      c.from.ID(),
		FromLane:  c.fromLane,
		FromIndex: c.fromIndex,
		To:        c.to.ID(),
		ToLane:    c.toLane,
		ToIndex:   c.toIndex,
	}
}

// From returns the source street.
func (c *Connection) From() *Street { return c.from }

// To returns the destination street.
func (c *Connection) To() *Street { return c.to }

type transferResult uint8

const (
	transferIdle transferResult = iota
	transferMoved
	transferBlocked
)

// transfer moves the source vehicle onto the destination cell. An occupied
// destination leaves both cells untouched.
func (c *Connection) transfer() transferResult {
	v := c.from.Cell(c.fromLane, c.fromIndex)
	if !v.IsVehicle() {
		return transferIdle
	}
	if c.to.Cell(c.toLane, c.toIndex) != Empty {
		return transferBlocked
	}
	c.to.set(c.toLane, c.toIndex, v)
	c.from.set(c.fromLane, c.fromIndex, Empty)
	return transferMoved
}

// holdsTerminal reports whether the connection drains the source lane's
// terminal cell.
func (c *Connection) holdsTerminal() bool {
	return c.fromIndex == c.from.terminal()
}

func resolveIndex(index, length int) int {
	if index < 0 {
		return index + length
	}
	return index
}

// newConnection validates spec against the resolved streets and the
// connections already in place. A lane only ever feeds the lane with the same
// index on a street of the same width.
func newConnection(spec ConnectionSpec, from, to *Street, existing []*Connection) (*Connection, error) {
	name := spec.From + "->" + spec.To
	if from.Tail() != RoleConnector {
		return nil, errors.Wrapf(ErrRoleMismatch, "connection %s: source tail is %s", name, from.Tail())
	}
	if to.Head() != RoleConnector {
		return nil, errors.Wrapf(ErrRoleMismatch, "connection %s: destination head is %s", name, to.Head())
	}
	if from.Lanes() != to.Lanes() {
		return nil, errors.Wrapf(ErrLaneMismatch, "connection %s: %d lanes vs %d", name, from.Lanes(), to.Lanes())
	}
	if spec.FromLane != spec.ToLane {
		return nil, errors.Wrapf(ErrLaneMismatch, "connection %s: lane %d cannot feed lane %d", name, spec.FromLane, spec.ToLane)
	}
	c := &Connection{
		from:      from,
		fromLane:  spec.FromLane,
		fromIndex: resolveIndex(spec.FromIndex, from.Length()),
		to:        to,
		toLane:    spec.ToLane,
		toIndex:   resolveIndex(spec.ToIndex, to.Length()),
	}
	if !from.Contains(c.fromLane, c.fromIndex) {
		return nil, errors.Wrapf(ErrOutOfRange, "connection %s: source lane %d index %d", name, spec.FromLane, spec.FromIndex)
	}
	if !to.Contains(c.toLane, c.toIndex) {
		return nil, errors.Wrapf(ErrOutOfRange, "connection %s: destination lane %d index %d", name, spec.ToLane, spec.ToIndex)
	}
	for _, e := range existing {
		if e.to == to && e.toLane == c.toLane {
			return nil, errors.Wrapf(ErrDuplicateLink, "connection %s: destination %s lane %d already fed by %s", name, to.ID(), c.toLane, e.from.ID())
		}
		if e.from == from && e.fromLane == c.fromLane {
			return nil, errors.Wrapf(ErrDuplicateLink, "connection %s: source %s lane %d already drains into %s", name, from.ID(), c.fromLane, e.to.ID())
		}
	}
	return c, nil
}
