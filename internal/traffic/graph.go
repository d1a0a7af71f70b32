package traffic

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Graph returns the street network as a directed graph. Node i is the i-th
// street of Streets(); an edge joins two streets linked by any connection.
// Self connections (ring streets) produce no edge.
func (w *World) Graph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	index := make(map[*Street]int64, len(w.streets))
	for i, s := range w.streets {
		index[s] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, c := range w.connections {
		from, to := index[c.from], index[c.to]
		if from == to {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}
	return g
}

// Unreachable lists the streets no vehicle can ever enter: those not
// reachable from a generator head or a parking exit binding.
func (w *World) Unreachable() []string {
	g := w.Graph()
	seen := make(map[int64]bool, len(w.streets))
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { seen[n.ID()] = true },
	}
	sources := make(map[string]bool)
	for _, s := range w.streets {
		if s.Head() == RoleGenerator {
			sources[s.ID()] = true
		}
	}
	for _, p := range w.parkings {
		for _, b := range p.bindings {
			if b.Role == BindingExit {
				sources[b.Street] = true
			}
		}
	}
	for i, s := range w.streets {
		if sources[s.ID()] {
			seen[int64(i)] = true
			bf.Walk(g, simple.Node(i), nil)
		}
	}
	var out []string
	for i, s := range w.streets {
		if !seen[int64(i)] {
			out = append(out, s.ID())
		}
	}
	return out
}

// Downstream lists the ids of streets directly fed by id.
func (w *World) Downstream(id string) []string {
	var out []string
	for _, c := range w.connections {
		if c.from.ID() != id {
			continue
		}
		out = append(out, c.to.ID())
	}
	return lo.Uniq(out)
}
