package optimizer

import (
	"context"
	"sort"

	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// GreedyBackend is a fast approximation mirroring the teacher's
// GreedyAuctionEngine: rank candidates by a value-density heuristic and
// greedily take as many copies as capacity allows, without the
// branch-and-bound search for optimality.
type GreedyBackend struct{}

// Solve ranks tuples by total load per unit objective (ascending -- cheap
// tuples first) and, in one pass over that order, assigns each tuple as
// many copies as the remaining edge capacity admits.
func (b *GreedyBackend) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if len(problem.Tuples) == 0 {
		return &Result{Status: StatusInfeasible, Allocation: map[int]int{}}, nil
	}
	for i := range problem.Tuples {
		if !problem.touchesAnyEdge(i) {
			return nil, &SolverError{Kind: KindUnbounded}
		}
	}

	order := make([]int, len(problem.Tuples))
	for i := range order {
		order[i] = i
	}
	totalLoad := func(i int) int {
		sum := 0
		for e := range problem.Capacities {
			sum += problem.Load(e, i)
		}
		return sum
	}
	sort.Slice(order, func(a, b int) bool {
		return totalLoad(order[a]) < totalLoad(order[b])
	})

	remaining := make(map[topology.Edge]int, len(problem.Capacities))
	for e, edgeCap := range problem.Capacities {
		remaining[e] = edgeCap
	}

	allocation := map[int]int{}
	objective := 0
	for _, i := range order {
		if ctx.Err() != nil {
			return nil, &SolverError{Kind: KindTimeout, Err: ctx.Err()}
		}
		mult := maxMultiplicityFor(problem, i, remaining)
		if mult <= 0 {
			continue
		}
		allocation[i] = mult
		objective += mult
		for e := range remaining {
			remaining[e] -= mult * problem.Load(e, i)
		}
	}

	if objective == 0 {
		return &Result{Status: StatusInfeasible, Allocation: map[int]int{}}, nil
	}
	return &Result{Status: StatusOptimal, Allocation: allocation, Objective: objective}, nil
}

func maxMultiplicityFor(problem *Problem, idx int, remaining map[topology.Edge]int) int {
	max := -1
	for e, edgeCap := range remaining {
		load := problem.Load(e, idx)
		if load == 0 {
			continue
		}
		m := edgeCap / load
		if max == -1 || m < max {
			max = m
		}
	}
	if max == -1 {
		return 0
	}
	return max
}
