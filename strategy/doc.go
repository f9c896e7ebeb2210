// Package strategy implements the phase-specific share allocation
// strategies from spec.md §4.4: given per-path metrics and a (sigma, tau)
// target, determine whether a share-allocation vector (SAV) is feasible
// and enumerate the minimal feasible SAVs within a share budget.
//
// Phase I assumes a purely passive adversary (interception only, no
// dropping) and uses a (k,k) scheme; Phase II adds an active dropping
// adversary and uses a general (N,t) scheme; Phase III is reserved for a
// tamper-capable adversary model and is an interface-only stub, matching
// the phased rollout original_source documents for its own Phase III.
package strategy
