package strategy

import (
	"math"

	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Phase1Strategy allocates shares under a purely passive adversary: no
// dropping, no tampering, just interception. It uses a (k,k) scheme, so
// the threshold is always k = sum(n), and the only constraint is
// confidentiality: prod_j(epsilon_j^n_j) <= tau. Reliability is automatic
// because every share that is not intercepted is delivered.
type Phase1Strategy struct {
	logEps []float64
	logTau float64
	m      int
}

// phase1LogTolerance absorbs floating-point rounding in the log-domain
// comparisons, so that a product landing exactly on tau (e.g. 0.1^2 vs
// 0.01) counts as feasible.
const phase1LogTolerance = 1e-9

// NewPhase1Strategy constructs a Phase1Strategy from per-path metrics.
func NewPhase1Strategy(metrics []topology.PathMetrics, sigma, tau float64) (*Phase1Strategy, error) {
	if err := validateSigmaTau(sigma, tau); err != nil {
		return nil, err
	}
	logEps := make([]float64, len(metrics))
	for i, m := range metrics {
		if m.Epsilon > 0 {
			logEps[i] = math.Log(m.Epsilon)
		} else {
			logEps[i] = math.Inf(-1)
		}
	}
	return &Phase1Strategy{
		logEps: logEps,
		logTau: math.Log(tau),
		m:      len(metrics),
	}, nil
}

// IsFeasible checks prod(epsilon_j^n_j) <= tau in log space, returning the
// (k,k) threshold k = sum(n) when feasible.
func (s *Phase1Strategy) IsFeasible(n []int) (bool, int) {
	total := 0
	for _, nj := range n {
		total += nj
	}
	if total == 0 {
		return false, 0
	}

	logProduct := 0.0
	for i, nj := range n {
		if nj > 0 {
			logProduct += float64(nj) * s.logEps[i]
		}
	}
	if logProduct <= s.logTau+phase1LogTolerance {
		return true, total
	}
	return false, 0
}

// IsMinimal reports whether n cannot be reduced in any component while
// staying feasible.
func (s *Phase1Strategy) IsMinimal(n []int) bool {
	return genericIsMinimal(s.m, n, s.IsFeasible)
}

// GenerateMinimalTuples runs the recursive log-domain search from spec.md
// §4.4.1 (Algorithm 1): paths are processed from last to first, each call
// solving for the remaining budget in log(tau) after accounting for the
// current path's contribution. Grounded on original_source's _gen_sav.
func (s *Phase1Strategy) GenerateMinimalTuples(nMax int) ([]SAVTuple, error) {
	seen := map[string]SAVTuple{}
	budgetExhausted := false

	var genSAV func(m int, remainingLogTau float64) [][]int
	genSAV = func(m int, remainingLogTau float64) [][]int {
		if m == 1 {
			le := s.logEps[0]
			if le >= 0 {
				return nil
			}
			n0 := int(math.Ceil(remainingLogTau/le - phase1LogTolerance))
			if n0 < 1 {
				n0 = 1
			}
			if n0 > nMax {
				budgetExhausted = true
				return nil
			}
			return [][]int{{n0}}
		}

		leM := s.logEps[m-1]
		if leM >= 0 {
			sub := genSAV(m-1, remainingLogTau)
			out := make([][]int, len(sub))
			for i, r := range sub {
				out[i] = append(append([]int{}, r...), 0)
			}
			return out
		}

		nOnly := int(math.Ceil(remainingLogTau/leM - phase1LogTolerance))
		if nOnly < 1 {
			nOnly = 1
		}

		var savs [][]int
		for nM := 0; nM < nOnly; nM++ {
			newLogTau := remainingLogTau - float64(nM)*leM
			sub := genSAV(m-1, newLogTau)
			for _, r := range sub {
				total := nM
				for _, v := range r {
					total += v
				}
				if total > nMax {
					budgetExhausted = true
					continue
				}
				if nM == 0 {
					savs = append(savs, append(append([]int{}, r...), 0))
					continue
				}
				logProdSub := 0.0
				for i, v := range r {
					if v > 0 {
						logProdSub += float64(v) * s.logEps[i]
					}
				}
				if logProdSub+float64(nM-1)*leM > s.logTau+phase1LogTolerance {
					savs = append(savs, append(append([]int{}, r...), nM))
				}
			}
		}

		if nOnly <= nMax {
			onlySAV := make([]int, m)
			onlySAV[m-1] = nOnly
			savs = append(savs, onlySAV)
		} else {
			budgetExhausted = true
		}
		return savs
	}

	for _, sav := range genSAV(s.m, s.logTau) {
		total := 0
		for _, v := range sav {
			total += v
		}
		if total == 0 {
			continue
		}
		tuple := SAVTuple{N: sav, T: total}
		seen[tuple.Key()] = tuple
	}

	result := make([]SAVTuple, 0, len(seen))
	for _, t := range seen {
		result = append(result, t)
	}
	if budgetExhausted {
		return result, ErrBudgetExhausted
	}
	return result, nil
}
