// Package traffic implements a one-dimensional multi-lane cellular automaton
// for road traffic. Streets hold lanes of cells, connections move vehicles
// between streets, and parkings absorb and emit vehicles on bound cells.
package traffic

import (
	"fmt"

	"mad-traffic/pkg/core"
)

// Cell is the value of a single automaton site.
type Cell uint8

const (
	// Empty marks a free cell.
	Empty Cell = 0
	// Blocked marks an immovable obstruction placed by the editor.
	Blocked Cell = 7

	cellStates = 8
)

// VehicleClasses is the number of vehicle classes, numbered 1..VehicleClasses.
const VehicleClasses = core.VehicleClasses

// IsVehicle reports whether c holds a vehicle of any class.
func (c Cell) IsVehicle() bool { return c >= 1 && c <= VehicleClasses }

// Valid reports whether c belongs to the closed set of cell values.
func (c Cell) Valid() bool { return c < cellStates }

func (c Cell) String() string {
	switch {
	case c == Empty:
		return "empty"
	case c == Blocked:
		return "blocked"
	case c.IsVehicle():
		return fmt.Sprintf("vehicle-%d", uint8(c))
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}
