package topology

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// DefaultBandwidthRange is the [low, high] inclusive range generators draw
// edge bandwidths from when the caller does not supply one.
var DefaultBandwidthRange = [2]int{2, 8}

func newGeneratorRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randBandwidth(rng *rand.Rand, bwRange [2]int) int {
	lo, hi := bwRange[0], bwRange[1]
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// GenerateLayeredGraph builds a layered directed graph with probabilistic
// forward edges, guaranteeing every node outside the last layer has at
// least one outgoing edge and every node outside the first layer at least
// one incoming edge, so the whole thing stays connected end to end. Ported from
// original_source's generate_layered_graph. Sender is the first node of the
// first layer, receiver is the first node of the last layer.
func GenerateLayeredGraph(nodesPerLayer []int, edgeProb float64, bwRange [2]int, seed uint64) *Topology {
	rng := newGeneratorRNG(seed)

	layers := make([][]Node, len(nodesPerLayer))
	nextID := 1
	for i, n := range nodesPerLayer {
		layer := make([]Node, n)
		for j := 0; j < n; j++ {
			layer[j] = Node(nextID)
			nextID++
		}
		layers[i] = layer
	}

	sender := layers[0][0]
	receiver := layers[len(layers)-1][0]

	adj := AdjacencyList{}
	for id := 1; id < nextID; id++ {
		adj[Node(id)] = nil
	}
	edgeBW := map[Edge]int{}

	for i := 0; i < len(layers)-1; i++ {
		for _, u := range layers[i] {
			for _, v := range layers[i+1] {
				if rng.Float64() < edgeProb {
					adj[u] = append(adj[u], v)
					edgeBW[Edge{u, v}] = randBandwidth(rng, bwRange)
				}
			}
		}
	}

	for i := 0; i < len(layers)-1; i++ {
		for _, u := range layers[i] {
			if len(adj[u]) == 0 {
				v := layers[i+1][rng.IntN(len(layers[i+1]))]
				adj[u] = append(adj[u], v)
				edgeBW[Edge{u, v}] = randBandwidth(rng, bwRange)
			}
		}
	}
	for i := 1; i < len(layers); i++ {
		for _, v := range layers[i] {
			hasIncoming := false
			for _, u := range layers[i-1] {
				if containsNode(adj[u], v) {
					hasIncoming = true
					break
				}
			}
			if !hasIncoming {
				u := layers[i-1][rng.IntN(len(layers[i-1]))]
				adj[u] = append(adj[u], v)
				edgeBW[Edge{u, v}] = randBandwidth(rng, bwRange)
			}
		}
	}

	t := New(adj, sender, receiver)
	t.EdgeBandwidths = edgeBW
	return t
}

// GenerateBarabasiAlbert builds a preferential-attachment graph: m0 fully
// connected seed nodes, then n-m0 additional nodes each attaching to m
// existing nodes with probability proportional to their current degree.
// Sender is node 1, receiver is node 2, matching original_source.
func GenerateBarabasiAlbert(n, m0, m int, bwRange [2]int, seed uint64) (*Topology, error) {
	if m > m0 {
		return nil, fmt.Errorf("%w: m (%d) must be <= m0 (%d)", ErrMalformedTopology, m, m0)
	}
	if n < m0 {
		return nil, fmt.Errorf("%w: n (%d) must be >= m0 (%d)", ErrMalformedTopology, n, m0)
	}

	rng := newGeneratorRNG(seed)
	adj := AdjacencyList{}
	edgeBW := map[Edge]int{}

	for i := 1; i <= m0; i++ {
		for j := 1; j <= m0; j++ {
			if i == j {
				continue
			}
			adj[Node(i)] = append(adj[Node(i)], Node(j))
		}
	}
	for i := 1; i <= m0; i++ {
		for _, j := range adj[Node(i)] {
			e := Edge{Node(i), j}
			if _, ok := edgeBW[e]; !ok {
				bw := randBandwidth(rng, bwRange)
				edgeBW[e] = bw
				edgeBW[Edge{j, Node(i)}] = bw
			}
		}
	}

	for newNode := m0 + 1; newNode <= n; newNode++ {
		keys := make([]Node, 0, len(adj))
		for k := range adj {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		totalDegree := 0
		for _, k := range keys {
			totalDegree += len(adj[k])
		}

		targets := make([]Node, 0, m)
		for len(targets) < m {
			targets = append(targets, weightedChoice(rng, keys, adj, totalDegree))
		}

		nn := Node(newNode)
		for _, target := range targets {
			bw := randBandwidth(rng, bwRange)
			adj[nn] = append(adj[nn], target)
			adj[target] = append(adj[target], nn)
			edgeBW[Edge{nn, target}] = bw
			edgeBW[Edge{target, nn}] = bw
		}
	}

	t := New(adj, Node(1), Node(2))
	t.EdgeBandwidths = edgeBW
	return t, nil
}

func weightedChoice(rng *rand.Rand, keys []Node, adj AdjacencyList, totalDegree int) Node {
	if totalDegree == 0 {
		return keys[rng.IntN(len(keys))]
	}
	r := rng.IntN(totalDegree)
	cum := 0
	for _, k := range keys {
		cum += len(adj[k])
		if r < cum {
			return k
		}
	}
	return keys[len(keys)-1]
}

// AssignAdversaryParams randomly selects nCompromised interior nodes and
// assigns each uniformly sampled (p_int, delta, theta) within the given
// ranges, clamping theta down if delta+theta would exceed 1. Ported from
// original_source's assign_adversary_params.
func AssignAdversaryParams(t *Topology, nCompromised int, pIntRange, deltaRange, thetaRange [2]float64, seed uint64) map[Node]NodeParams {
	rng := newGeneratorRNG(seed)

	eligible := make([]Node, 0, len(t.Adjacency))
	for n := range t.Adjacency {
		if n != t.Sender && n != t.Receiver {
			eligible = append(eligible, n)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })

	if nCompromised > len(eligible) {
		nCompromised = len(eligible)
	}
	rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	compromised := eligible[:nCompromised]

	params := map[Node]NodeParams{}
	for _, node := range compromised {
		pInt := uniform(rng, pIntRange)
		delta := uniform(rng, deltaRange)
		theta := uniform(rng, thetaRange)
		if delta+theta > 1.0 {
			theta = 1.0 - delta
		}
		params[node] = NodeParams{PInt: pInt, Delta: delta, Theta: theta}
	}
	return params
}

func uniform(rng *rand.Rand, r [2]float64) float64 {
	return r[0] + rng.Float64()*(r[1]-r[0])
}
