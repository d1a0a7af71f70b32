package traffic

import "fmt"

// ruleTable holds the next center value for every (left, center, right)
// triple. It is filled once at init and checked for totality there.
var ruleTable = buildRuleTable()

// Next returns the next value of center given its neighbours. Values outside
// the closed cell set have no rule and panic.
func Next(left, center, right Cell) Cell {
	if !left.Valid() || !center.Valid() || !right.Valid() {
		panic(fmt.Sprintf("traffic: no rule for (%d,%d,%d)", left, center, right))
	}
	return ruleTable[left][center][right]
}

func buildRuleTable() [cellStates][cellStates][cellStates]Cell {
	var t [cellStates][cellStates][cellStates]Cell
	for l := Cell(0); l < cellStates; l++ {
		for c := Cell(0); c < cellStates; c++ {
			for r := Cell(0); r < cellStates; r++ {
				next := rule(l, c, r)
				if !next.Valid() {
					panic(fmt.Sprintf("traffic: rule (%d,%d,%d) yields %d", l, c, r, next))
				}
				t[l][c][r] = next
			}
		}
	}
	return t
}

// rule is the movement policy: a vehicle advances one cell per tick into a
// free cell and waits otherwise. Blocked cells never change and never accept
// a vehicle. Classes never convert into one another.
func rule(left, center, right Cell) Cell {
	switch {
	case center == Blocked:
		return Blocked
	case center == Empty:
		if left.IsVehicle() {
			return left
		}
		return Empty
	default:
		if right == Empty {
			return Empty
		}
		return center
	}
}
