// Package topology models the network that secret shares travel over:
// node-level adversary parameters, derived per-path interception/delivery
// probabilities, and the graph-construction helpers spec.md treats as
// external collaborators to the core (Barabási–Albert and layered random
// topologies, random adversary-parameter assignment).
//
// A Topology is a value object: adjacency, sender, receiver, and node
// parameters are set once; Build computes and caches the derived path list
// and per-path metrics, matching the "no cycles in the dependency graph of
// derived data" rule from spec.md §9 (paths -> metrics, nothing downstream
// writes back into a Topology).
package topology
