// Package simulate runs Monte Carlo trials of a multipath secret-sharing
// transmission to empirically validate a strategy's analytical
// reliability/confidentiality predictions, per spec.md §4.6.
//
// The primary trial model follows spec.md's literal description: each
// share is marked intercepted/dropped using its path's already-aggregated
// epsilon/rho, independently of any other share. Simulator.RunTrialNodeWalk
// supplements this with a per-node walk (grounded on original_source's
// TransmissionSimulator.simulate_trial) that additionally models tamper
// via each node's theta, for callers exploring beyond the core model.
//
// This package's PRNG (math/rand/v2) is deliberately distinct from the
// cryptographic randomness package field uses for real secret sharing --
// conflating them would let a simulation seed influence production share
// generation, which spec.md §5 rules out.
package simulate
