package prob

// ThresholdInterval is T(n) from spec.md §4.2: the (possibly empty) integer
// interval of thresholds t for which both the reliability and
// confidentiality bounds hold simultaneously.
type ThresholdInterval struct {
	Low, High int
	Empty     bool
}

// FindThresholdInterval computes T(n) = { t : tailGE(pmfB, t) >= sigma AND
// tailGE(pmfE, t) <= tau }, t ranging over [1, N]. Because TailGE is
// monotone non-increasing in t for either PMF, the reliability bound holds
// for t up to some maximum and the confidentiality bound holds for t from
// some minimum upward; T(n) is therefore the intersection of a prefix and a
// suffix of [1, N], found by two independent binary searches.
func FindThresholdInterval(pmfB, pmfE []float64, sigma, tau float64) ThresholdInterval {
	n := len(pmfB) - 1
	if n == 0 || len(pmfE)-1 != n {
		return ThresholdInterval{Empty: true}
	}

	tSec, secOK := smallestSatisfying(n, func(t int) bool { return TailGE(pmfE, t) <= tau })
	tRel, relOK := largestSatisfying(n, func(t int) bool { return TailGE(pmfB, t) >= sigma })

	if !secOK || !relOK || tSec > tRel {
		return ThresholdInterval{Empty: true}
	}
	return ThresholdInterval{Low: tSec, High: tRel}
}

// smallestSatisfying binary-searches [1, n] for the smallest t for which
// pred(t) holds, assuming pred is false-then-true (monotone) over that
// range. Returns (0, false) if pred never holds in [1, n].
func smallestSatisfying(n int, pred func(int) bool) (int, bool) {
	if !pred(n) {
		return 0, false
	}
	lo, hi := 1, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if pred(mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, true
}

// largestSatisfying binary-searches [1, n] for the largest t for which
// pred(t) holds, assuming pred is true-then-false (monotone) over that
// range. Returns (0, false) if pred never holds in [1, n].
func largestSatisfying(n int, pred func(int) bool) (int, bool) {
	if !pred(1) {
		return 0, false
	}
	lo, hi := 1, n
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if pred(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}
