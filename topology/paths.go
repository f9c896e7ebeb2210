package topology

const defaultMaxPaths = 50

// Build enumerates all simple sender-to-receiver paths (capped at
// t.MaxPaths, default 50) and computes their per-path metrics, caching
// both on the Topology. It fails with ErrNoPaths if no path exists, and
// with ErrMalformedPath if a discovered path repeats a node or places the
// sender/receiver in an interior slot — which cannot happen from this
// package's own DFS, but Build validates caller-supplied NodeParams keys
// for sanity (see Validate).
func (t *Topology) Build() error {
	if err := t.Validate(); err != nil {
		return err
	}

	maxPaths := t.MaxPaths
	if maxPaths <= 0 {
		maxPaths = defaultMaxPaths
	}

	paths := findAllPaths(t.Adjacency, t.Sender, t.Receiver, maxPaths)
	if len(paths) == 0 {
		return ErrNoPaths
	}

	metrics := make([]PathMetrics, len(paths))
	for i, p := range paths {
		m, err := t.computePathMetrics(p)
		if err != nil {
			return err
		}
		metrics[i] = m
	}

	t.paths = paths
	t.pathMetrics = metrics
	t.built = true
	return nil
}

// Validate checks the topology invariants from spec.md §3/§7 that do not
// require path enumeration: a designated sender/receiver, well-formed node
// params, and non-negative integer edge bandwidths.
func (t *Topology) Validate() error {
	if t.Adjacency == nil {
		return ErrMalformedTopology
	}
	if t.Sender == t.Receiver {
		return ErrMalformedTopology
	}
	for node, params := range t.NodeParams {
		if node == t.Sender || node == t.Receiver {
			continue
		}
		if err := params.Validate(); err != nil {
			return err
		}
	}
	for edge, bw := range t.EdgeBandwidths {
		if bw < 0 {
			return ErrMalformedTopology
		}
		_ = edge
	}
	return nil
}

// findAllPaths enumerates simple paths from src to dst via iterative DFS,
// stopping once maxPaths have been found. Grounded on original_source's
// find_all_paths: a stack of (node, path-so-far) frames, no-repeat check
// against the accumulated path.
func findAllPaths(adj AdjacencyList, src, dst Node, maxPaths int) [][]Node {
	type frame struct {
		node Node
		path []Node
	}

	var paths [][]Node
	stack := []frame{{node: src, path: []Node{src}}}

	for len(stack) > 0 && len(paths) < maxPaths {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node == dst {
			paths = append(paths, top.path)
			continue
		}
		for _, next := range adj[top.node] {
			if containsNode(top.path, next) {
				continue
			}
			extended := make([]Node, len(top.path)+1)
			copy(extended, top.path)
			extended[len(top.path)] = next
			stack = append(stack, frame{node: next, path: extended})
		}
	}
	return paths
}

func containsNode(path []Node, n Node) bool {
	for _, p := range path {
		if p == n {
			return true
		}
	}
	return false
}

// computePathMetrics computes (epsilon, rho) for a path per spec.md §3:
//
//	epsilon = 1 - prod_v (1 - p_int(v))
//	rho     = prod_v (1 - p_int(v)*delta(v) - p_int(v)*theta(v))
//
// delta and theta are drop/tamper probabilities conditional on interception,
// not marginal probabilities: a node that is never intercepted never drops
// or tampers its share, matching original_source's NodeParams.f (intact
// forward probability: f = 1 - p_int*delta - p_int*theta).
//
// This is computed over the path's interior nodes (excluding sender and
// receiver), assuming independence across nodes on the path. Independence
// across paths that share a node is a separate, accepted simplification
// (spec.md §9's third Open Question) that this function does not need to
// reason about — it only ever sees one path at a time.
func (t *Topology) computePathMetrics(path []Node) (PathMetrics, error) {
	if len(path) < 2 {
		return PathMetrics{}, ErrMalformedPath
	}
	if path[0] != t.Sender || path[len(path)-1] != t.Receiver {
		return PathMetrics{}, ErrMalformedPath
	}
	seen := make(map[Node]bool, len(path))
	for _, interior := range path[1 : len(path)-1] {
		if interior == t.Sender || interior == t.Receiver {
			return PathMetrics{}, ErrMalformedPath
		}
		if seen[interior] {
			return PathMetrics{}, ErrMalformedPath
		}
		seen[interior] = true
	}

	nonIntercept := 1.0
	notDropped := 1.0
	for _, node := range path[1 : len(path)-1] {
		params := t.paramsFor(node)
		nonIntercept *= 1 - params.PInt
		notDropped *= 1 - params.PInt*(params.Delta+params.Theta)
	}

	return PathMetrics{
		Epsilon: 1 - nonIntercept,
		Rho:     notDropped,
	}, nil
}
