package strategy

import (
	"strconv"
	"strings"

	"github.com/shwdsun/secure-multipath-transmission/prob"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Phase2Strategy allocates shares under an adversary that both intercepts
// and drops, using a general (N,t) scheme. Feasibility requires a
// threshold t with P[X_E >= t] <= tau (confidentiality) and P[X_B >= t] >=
// sigma (reliability), where X_E and X_B are sums of independent
// per-path binomials with success probabilities epsilon_j and rho_j.
type Phase2Strategy struct {
	epsilon []float64
	rho     []float64
	sigma   float64
	tau     float64
	m       int
}

// NewPhase2Strategy constructs a Phase2Strategy from per-path metrics.
func NewPhase2Strategy(metrics []topology.PathMetrics, sigma, tau float64) (*Phase2Strategy, error) {
	if err := validateSigmaTau(sigma, tau); err != nil {
		return nil, err
	}
	epsilon := make([]float64, len(metrics))
	rho := make([]float64, len(metrics))
	for i, m := range metrics {
		epsilon[i] = m.Epsilon
		rho[i] = m.Rho
	}
	return &Phase2Strategy{epsilon: epsilon, rho: rho, sigma: sigma, tau: tau, m: len(metrics)}, nil
}

// IsFeasible computes the exact PMFs of shares leaked (X_E) and shares
// delivered (X_B) via convolution and searches for a threshold satisfying
// both targets, returning the canonical (smallest feasible) threshold.
func (s *Phase2Strategy) IsFeasible(n []int) (bool, int) {
	total := 0
	for _, nj := range n {
		total += nj
	}
	if total == 0 {
		return false, 0
	}

	pmfE := prob.SumBinomials(n, s.epsilon, prob.DefaultRenormEpsilon, nil)
	pmfB := prob.SumBinomials(n, s.rho, prob.DefaultRenormEpsilon, nil)

	interval := prob.FindThresholdInterval(pmfB, pmfE, s.sigma, s.tau)
	if interval.Empty {
		return false, 0
	}
	return true, interval.Low
}

// IsMinimal reports whether n cannot be reduced in any component while
// staying feasible.
func (s *Phase2Strategy) IsMinimal(n []int) bool {
	return genericIsMinimal(s.m, n, s.IsFeasible)
}

// parallelFeasibilityThreshold is the frontier size above which
// GenerateMinimalTuples chunks feasibility evaluation across goroutines
// rather than testing candidates one at a time.
const parallelFeasibilityThreshold = 32

// feasibilityChunkSize bounds how much of a frontier a single goroutine
// evaluates before reporting back, mirroring the fixed chunk size in the
// teacher's DeriveBlindingVector, scaled down for this workload's size.
const feasibilityChunkSize = 16

type feasibilityResult struct {
	feasible  bool
	threshold int
}

// evaluateFrontier computes IsFeasible for every candidate in nodes. Below
// parallelFeasibilityThreshold candidates it runs inline; above it,
// candidates are split into fixed-size chunks evaluated by their own
// goroutine, with a done-channel barrier before returning -- the same
// shape as the teacher's DeriveBlindingVector chunking, applied here to
// the BFS frontier's feasibility checks instead of polynomial evaluation.
func (s *Phase2Strategy) evaluateFrontier(nodes [][]int) []feasibilityResult {
	results := make([]feasibilityResult, len(nodes))
	if len(nodes) < parallelFeasibilityThreshold {
		for i, n := range nodes {
			feasible, t := s.IsFeasible(n)
			results[i] = feasibilityResult{feasible, t}
		}
		return results
	}

	nChunks := (len(nodes) + feasibilityChunkSize - 1) / feasibilityChunkSize
	doneCh := make(chan struct{}, nChunks)
	for start := 0; start < len(nodes); start += feasibilityChunkSize {
		go func(start int) {
			end := start + feasibilityChunkSize
			if end > len(nodes) {
				end = len(nodes)
			}
			for i := start; i < end; i++ {
				feasible, t := s.IsFeasible(nodes[i])
				results[i] = feasibilityResult{feasible, t}
			}
			doneCh <- struct{}{}
		}(start)
	}
	for i := 0; i < nChunks; i++ {
		<-doneCh
	}
	return results
}

// GenerateMinimalTuples enumerates minimal Phase II SAVs via level-order
// BFS from the unit vectors, expanding infeasible assignments one
// component at a time. BFS order by total shares guarantees minimal
// tuples surface before any non-minimal superset of them, matching
// original_source's Phase2Strategy; each level's feasibility checks run
// through evaluateFrontier so large frontiers parallelize.
func (s *Phase2Strategy) GenerateMinimalTuples(nMax int) ([]SAVTuple, error) {
	var result []SAVTuple
	seen := map[string]bool{}
	visited := map[string]bool{}

	frontier := make([][]int, 0, s.m)
	for j := 0; j < s.m; j++ {
		unit := make([]int, s.m)
		unit[j] = 1
		frontier = append(frontier, unit)
		visited[vecKey(unit)] = true
	}

	budgetExhausted := false
	for len(frontier) > 0 {
		results := s.evaluateFrontier(frontier)

		var nextFrontier [][]int
		for i, n := range frontier {
			total := 0
			for _, v := range n {
				total += v
			}
			if total > nMax {
				budgetExhausted = true
				continue
			}

			if results[i].feasible {
				if s.IsMinimal(n) {
					tuple := SAVTuple{N: append([]int{}, n...), T: results[i].threshold}
					if !seen[tuple.Key()] {
						seen[tuple.Key()] = true
						result = append(result, tuple)
					}
				}
				continue
			}

			for j := 0; j < s.m; j++ {
				next := append([]int{}, n...)
				next[j]++
				nextTotal := total + 1
				if nextTotal > nMax {
					budgetExhausted = true
					continue
				}
				key := vecKey(next)
				if !visited[key] {
					visited[key] = true
					nextFrontier = append(nextFrontier, next)
				}
			}
		}
		frontier = nextFrontier
	}

	if budgetExhausted {
		return result, ErrBudgetExhausted
	}
	return result, nil
}

func vecKey(n []int) string {
	var sb strings.Builder
	for i, v := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
