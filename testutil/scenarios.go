package testutil

import "github.com/shwdsun/secure-multipath-transmission/topology"

// ReadmeTopology returns the six-node topology spec.md's README worked
// example (Scenario S1) uses: sender 1, receiver 3, three sender-to-receiver
// paths through nodes 2, 4, 5, 6 (1-2-5-3, 1-4-5-3, and 1-6-3; nodes 2 and 4
// both funnel through the shared node 5).
func ReadmeTopology() *topology.Topology {
	adj := topology.AdjacencyList{
		1: {2, 4, 6},
		2: {5},
		3: nil,
		4: {5},
		5: {3},
		6: {3},
	}
	t := topology.New(adj, 1, 3)
	t.NodeParams[2] = topology.NodeParams{PInt: 0.10, Delta: 0.30}
	t.NodeParams[4] = topology.NodeParams{PInt: 0.15, Delta: 0.20}
	t.NodeParams[5] = topology.NodeParams{PInt: 0.05, Delta: 0.50}
	t.NodeParams[6] = topology.NodeParams{PInt: 0.20, Delta: 0.10}

	t.EdgeBandwidths[topology.Edge{From: 1, To: 2}] = 5
	t.EdgeBandwidths[topology.Edge{From: 1, To: 4}] = 5
	t.EdgeBandwidths[topology.Edge{From: 1, To: 6}] = 5
	t.EdgeBandwidths[topology.Edge{From: 2, To: 5}] = 5
	t.EdgeBandwidths[topology.Edge{From: 4, To: 5}] = 5
	t.EdgeBandwidths[topology.Edge{From: 5, To: 3}] = 10
	t.EdgeBandwidths[topology.Edge{From: 6, To: 3}] = 5
	return t
}

// ParallelPathsOption configures ParallelPathsTopology.
type ParallelPathsOption func(*parallelPathsConfig)

type parallelPathsConfig struct {
	pathCount int
	pInt      float64
	delta     float64
}

// WithPathCount sets the number of parallel sender-to-receiver paths.
func WithPathCount(n int) ParallelPathsOption {
	return func(c *parallelPathsConfig) { c.pathCount = n }
}

// WithInterceptProb sets the interception probability shared by every
// interior node across all paths.
func WithInterceptProb(p float64) ParallelPathsOption {
	return func(c *parallelPathsConfig) { c.pInt = p }
}

// WithDropProb sets the drop probability shared by every interior node
// across all paths.
func WithDropProb(p float64) ParallelPathsOption {
	return func(c *parallelPathsConfig) { c.delta = p }
}

// ParallelPathsTopology returns a sender/receiver pair joined by pathCount
// disjoint single-hop paths, each with identical (p_int, delta) at its one
// interior node. Defaults (2 paths, p_int=0.5, delta=0.5) match spec.md's
// Scenario S3.
func ParallelPathsTopology(opts ...ParallelPathsOption) *topology.Topology {
	cfg := parallelPathsConfig{pathCount: 2, pInt: 0.5, delta: 0.5}
	for _, opt := range opts {
		opt(&cfg)
	}

	const sender topology.Node = 0
	const receiver topology.Node = 1
	adj := topology.AdjacencyList{sender: nil, receiver: nil}
	t := topology.New(adj, sender, receiver)

	for i := 0; i < cfg.pathCount; i++ {
		mid := topology.Node(100 + i)
		t.Adjacency[sender] = append(t.Adjacency[sender], mid)
		t.Adjacency[mid] = []topology.Node{receiver}
		t.NodeParams[mid] = topology.NodeParams{PInt: cfg.pInt, Delta: cfg.delta}
	}
	return t
}

// SinglePathCapacityTopology returns a single sender-to-receiver path with
// one interior node and the given edge capacity on both hops, matching the
// shape of spec.md's Scenario S5 (capacity-10 single path).
func SinglePathCapacityTopology(capacity int) *topology.Topology {
	adj := topology.AdjacencyList{
		1: {2},
		2: {3},
		3: nil,
	}
	t := topology.New(adj, 1, 3)
	t.NodeParams[2] = topology.NodeParams{}
	t.EdgeBandwidths[topology.Edge{From: 1, To: 2}] = capacity
	t.EdgeBandwidths[topology.Edge{From: 2, To: 3}] = capacity
	return t
}

// TwoPathEpsilonTopology returns two single-hop disjoint paths whose
// interior nodes have the given interception probabilities and zero drop
// probability, matching spec.md's Scenario S6 (Phase I, eps = (0.5, 0.1)).
//
// Node 3 is listed before node 2 because Build's DFS explores the
// last-listed neighbour first; this order makes the eps1 path (via node 2)
// path 0 and the eps2 path (via node 3) path 1.
func TwoPathEpsilonTopology(eps1, eps2 float64) *topology.Topology {
	adj := topology.AdjacencyList{
		1: {3, 2},
		2: {4},
		3: {4},
		4: nil,
	}
	t := topology.New(adj, 1, 4)
	t.NodeParams[2] = topology.NodeParams{PInt: eps1}
	t.NodeParams[3] = topology.NodeParams{PInt: eps2}
	return t
}
