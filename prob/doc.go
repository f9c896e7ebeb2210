// Package prob computes exact distributions of sums of independent,
// non-identical Binomial variables — the distributions X_B (shares
// received) and X_E (shares leaked) that drive feasibility checks in
// package strategy.
//
// A PMF is represented as a []float64 of length N+1, built by convolving
// per-path Binomial(n_j, q_j) PMFs one path at a time (O(N^2) total).
// Binomial PMFs themselves are produced by a stable forward recurrence
// rather than repeated factorial evaluation. Tail probabilities and a
// monotone threshold search (two binary searches) round out the engine.
//
// Everything here is double precision; for N large enough that floating
// point drift becomes material (see LogSpaceCutover), SumBinomials
// switches automatically to a path that renormalizes after every
// convolution step instead of only at the end, under the same
// renormalization contract.
package prob
