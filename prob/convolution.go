package prob

import "math"

// DefaultRenormEpsilon is the default drift tolerance before the engine
// renormalizes a PMF, matching spec.md §6's configuration default.
const DefaultRenormEpsilon = 1e-12

// LogSpaceCutover is the total share count N at or above which SumBinomials
// switches to logSumBinomials, which renormalizes after every convolution
// step instead of once at the end. Despite the name, that path still
// convolves in linear probability space; no log-space accumulation is done.
// The cutover is a fixed constant, not a configuration option.
const LogSpaceCutover = 200

// Warning reports a non-fatal drift-correction event, matching spec.md
// §7's NumericalWarning error kind. Warning is not an error; callers that
// want to observe it pass a non-nil *Warning to SumBinomials.
type Warning struct {
	Drift float64
}

// SumBinomials computes the PMF of X = sum_j Y_j, Y_j ~ Binomial(n_j, q_j),
// independent, by sequential convolution of each path's Binomial PMF. The
// result has length (sum n_j)+1. renormEpsilon is the drift tolerance
// before a renormalization pass runs; pass DefaultRenormEpsilon unless
// overridden by configuration. If warn is non-nil and a renormalization
// was needed, *warn is populated with the observed drift.
func SumBinomials(n []int, q []float64, renormEpsilon float64, warn *Warning) []float64 {
	if len(n) != len(q) {
		panic("prob: n and q must have the same length")
	}

	total := 0
	for _, nj := range n {
		total += nj
	}
	if total >= LogSpaceCutover {
		return logSumBinomials(n, q, renormEpsilon, warn)
	}

	pmf := []float64{1}
	for j, nj := range n {
		if nj == 0 {
			continue
		}
		pmf = convolve(pmf, BinomialPMF(nj, q[j]))
	}

	renormalizeIfNeeded(pmf, renormEpsilon, warn)
	return pmf
}

// convolve computes the direct O(len(a)*len(b)) convolution of two PMFs.
func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for k, bk := range b {
			out[i+k] += ai * bk
		}
	}
	return out
}

func renormalizeIfNeeded(pmf []float64, epsilon float64, warn *Warning) {
	sum := 0.0
	for _, p := range pmf {
		sum += p
	}
	drift := math.Abs(sum - 1)
	if drift <= epsilon {
		return
	}
	for i := range pmf {
		pmf[i] /= sum
	}
	if warn != nil {
		warn.Drift = drift
	}
}

// logSumBinomials is the accumulation path used automatically for large N
// (see LogSpaceCutover). It performs the same sequential convolution but
// renormalizes after every path rather than only at the end, bounding the
// drift any single convolution step can accumulate before it compounds
// across a long chain of paths — the failure mode large N is prone to.
func logSumBinomials(n []int, q []float64, renormEpsilon float64, warn *Warning) []float64 {
	pmf := []float64{1}
	for j, nj := range n {
		if nj == 0 {
			continue
		}
		pmf = convolve(pmf, BinomialPMF(nj, q[j]))
		renormalizeIfNeeded(pmf, renormEpsilon, warn)
	}
	return pmf
}
