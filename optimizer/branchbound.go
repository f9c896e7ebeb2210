package optimizer

import (
	"context"

	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// BranchAndBoundBackend is the default Backend. It generalizes the
// teacher's single-capacity DP knapsack (protocol/auction.go's
// knapsackPacking) to the multi-edge-constraint setting spec.md's
// optimizer needs: rather than one capacity dimension, every tuple
// consumes capacity on every edge its constituent paths cross, so a 1D
// DP table no longer applies and the search is a branch-and-bound over
// per-tuple multiplicities instead.
type BranchAndBoundBackend struct{}

// Solve finds the multiplicity vector maximizing the total number of tuple
// copies (the sum of multiplicities) subject to the edge capacity constraints, exhaustively but with
// admissible pruning: at any partial assignment, the achievable bound is
// the current objective plus, for each remaining tuple in isolation, the
// most copies of it the remaining capacity could still admit.
func (b *BranchAndBoundBackend) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if len(problem.Tuples) == 0 {
		return &Result{Status: StatusInfeasible, Allocation: map[int]int{}}, nil
	}

	for i := range problem.Tuples {
		if !problem.touchesAnyEdge(i) {
			return nil, &SolverError{Kind: KindUnbounded}
		}
	}

	remaining := make(map[topology.Edge]int, len(problem.Capacities))
	for e, edgeCap := range problem.Capacities {
		remaining[e] = edgeCap
	}

	bound := &bnbState{
		problem:    problem,
		best:       0,
		bestAssign: map[int]int{},
	}
	assign := make(map[int]int, len(problem.Tuples))
	bound.search(ctx, 0, remaining, 0, assign)

	if ctx.Err() != nil {
		return nil, &SolverError{Kind: KindTimeout, Err: ctx.Err()}
	}

	if bound.best == 0 {
		return &Result{Status: StatusInfeasible, Allocation: map[int]int{}}, nil
	}
	return &Result{Status: StatusOptimal, Allocation: bound.bestAssign, Objective: bound.best}, nil
}

type bnbState struct {
	problem    *Problem
	best       int
	bestAssign map[int]int
}

func (s *bnbState) search(ctx context.Context, idx int, remaining map[topology.Edge]int, objective int, assign map[int]int) {
	if ctx.Err() != nil {
		return
	}
	if idx == len(s.problem.Tuples) {
		if objective > s.best {
			s.best = objective
			s.bestAssign = copyAssign(assign)
		}
		return
	}

	if objective+s.upperBoundRemaining(idx, remaining) <= s.best {
		return
	}

	maxMult := s.maxMultiplicity(idx, remaining)
	for mult := maxMult; mult >= 0; mult-- {
		if mult > 0 {
			assign[idx] = mult
		} else {
			delete(assign, idx)
		}
		nextRemaining := s.consume(idx, mult, remaining)
		s.search(ctx, idx+1, nextRemaining, objective+mult, assign)
	}
	delete(assign, idx)
}

// maxMultiplicity returns the largest x such that using tuple idx x times
// alone stays within every edge's remaining capacity.
func (s *bnbState) maxMultiplicity(idx int, remaining map[topology.Edge]int) int {
	max := -1
	for e, edgeCap := range remaining {
		load := s.problem.Load(e, idx)
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

// upperBoundRemaining sums, for every tuple at or after idx, the most
// copies that tuple could contribute if it had the remaining capacity
// entirely to itself -- an admissible overestimate of what they could
// jointly contribute.
func (s *bnbState) upperBoundRemaining(idx int, remaining map[topology.Edge]int) int {
	total := 0
	for i := idx; i < len(s.problem.Tuples); i++ {
		total += s.maxMultiplicity(i, remaining)
	}
	return total
}

func (s *bnbState) consume(idx, mult int, remaining map[topology.Edge]int) map[topology.Edge]int {
	if mult == 0 {
		return remaining
	}
	next := make(map[topology.Edge]int, len(remaining))
	for e, edgeCap := range remaining {
		next[e] = edgeCap - mult*s.problem.Load(e, idx)
	}
	return next
}

func copyAssign(assign map[int]int) map[int]int {
	out := make(map[int]int, len(assign))
	for k, v := range assign {
		out[k] = v
	}
	return out
}
