package prob

import "math"

// BinomialPMF returns the PMF of Binomial(n, q) as a slice of length n+1,
// PMF[k] = Pr[Y = k]. It uses the stable forward recurrence
// b_{k+1} = b_k * (n-k)/(k+1) * q/(1-q) starting from b_0 = (1-q)^n,
// avoiding direct evaluation of binomial coefficients and powers for large
// n. The degenerate cases q == 0 and q == 1 are handled explicitly.
func BinomialPMF(n int, q float64) []float64 {
	pmf := make([]float64, n+1)

	if q <= 0 {
		pmf[0] = 1
		return pmf
	}
	if q >= 1 {
		pmf[n] = 1
		return pmf
	}

	ratio := q / (1 - q)
	pmf[0] = pow1mq(n, q)
	for k := 0; k < n; k++ {
		pmf[k+1] = pmf[k] * ratio * float64(n-k) / float64(k+1)
	}
	return pmf
}

// pow1mq computes (1-q)^n without materializing intermediate binomial
// coefficients, guarding against underflow to exactly zero by falling back
// to a log-space computation when the direct product would vanish.
func pow1mq(n int, q float64) float64 {
	p := 1 - q
	if n == 0 {
		return 1
	}
	v := 1.0
	for i := 0; i < n; i++ {
		v *= p
	}
	if v == 0 {
		// log-space fallback for pathological (n, q) pairs.
		return math.Exp(float64(n) * math.Log(p))
	}
	return v
}
