package optimizer

import (
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Problem is an instance of the throughput optimization from spec.md
// §4.5: a set of minimal share-allocation tuples, the path each SAV
// component refers to, and the bandwidth capacity of every edge those
// paths cross.
type Problem struct {
	Tuples     []strategy.SAVTuple
	Paths      [][]topology.Node
	Capacities map[topology.Edge]int

	// edgeLoad[e] is the per-tuple load that edge e bears when tuple i is
	// used once: load(e, n^(i)) = sum over paths containing e of n_j.
	// Computed once by NewProblem and reused by every backend.
	edgeLoad map[topology.Edge][]int
}

// NewProblem builds a Problem from minimal tuples, the topology's
// enumerated paths (in the same order the tuples' N vectors index), and
// edge capacities.
func NewProblem(tuples []strategy.SAVTuple, paths [][]topology.Node, capacities map[topology.Edge]int) *Problem {
	p := &Problem{Tuples: tuples, Paths: paths, Capacities: capacities}
	p.edgeLoad = computeEdgeLoads(tuples, paths, capacities)
	return p
}

func computeEdgeLoads(tuples []strategy.SAVTuple, paths [][]topology.Node, capacities map[topology.Edge]int) map[topology.Edge][]int {
	pathEdges := make([][]topology.Edge, len(paths))
	for j, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			pathEdges[j] = append(pathEdges[j], topology.Edge{From: path[i], To: path[i+1]})
		}
	}

	edgeLoad := make(map[topology.Edge][]int, len(capacities))
	for e := range capacities {
		load := make([]int, len(tuples))
		for i, tuple := range tuples {
			total := 0
			for j, edges := range pathEdges {
				if j >= len(tuple.N) {
					continue
				}
				for _, pe := range edges {
					if pe == e {
						total += tuple.N[j]
						break
					}
				}
			}
			load[i] = total
		}
		edgeLoad[e] = load
	}
	return edgeLoad
}

// Load returns the load tuple i places on edge e when used once.
func (p *Problem) Load(e topology.Edge, tupleIdx int) int {
	loads, ok := p.edgeLoad[e]
	if !ok || tupleIdx >= len(loads) {
		return 0
	}
	return loads[tupleIdx]
}

// touchesAnyEdge reports whether tuple i places nonzero load on at least
// one capacitated edge. A tuple that touches none can be repeated without
// bound, which spec.md §4.5 calls Unbounded -- a modeling bug, not a
// solver outcome to optimize around.
func (p *Problem) touchesAnyEdge(tupleIdx int) bool {
	for _, loads := range p.edgeLoad {
		if tupleIdx < len(loads) && loads[tupleIdx] > 0 {
			return true
		}
	}
	return false
}
