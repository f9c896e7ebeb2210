package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shwdsun/secure-multipath-transmission/optimizer"
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Record is an enumeration run: the topology it ran against (identified by
// a content digest, not copied in full), the phase and (sigma, tau, n_max)
// parameters, the minimal tuples a PhaseStrategy produced, and an optional
// optimizer result over those tuples.
type Record struct {
	ID              int64               `json:"id,omitempty"`
	TopologyDigest  string              `json:"topology_digest"`
	Phase           string              `json:"phase"`
	Sigma           float64             `json:"sigma"`
	Tau             float64             `json:"tau"`
	NMax            int                 `json:"n_max"`
	Tuples          []strategy.SAVTuple `json:"tuples"`
	OptimizerResult *optimizer.Result   `json:"optimizer_result,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// TopologyDigest computes a deterministic content digest of a Topology's
// external representation: sorted edges, sorted node params, sender,
// receiver. Two Topologies with the same digest have the same structure
// and adversary parameters, independent of map iteration order.
func TopologyDigest(t *topology.Topology) (string, error) {
	spec := t.ToSpec()

	sort.Slice(spec.Edges, func(i, j int) bool {
		if spec.Edges[i].From != spec.Edges[j].From {
			return spec.Edges[i].From < spec.Edges[j].From
		}
		return spec.Edges[i].To < spec.Edges[j].To
	})

	type canonicalNodeParam struct {
		Node topology.Node       `json:"node"`
		P    topology.NodeParams `json:"p"`
	}
	params := make([]canonicalNodeParam, 0, len(spec.NodeParams))
	for n, p := range spec.NodeParams {
		params = append(params, canonicalNodeParam{Node: n, P: p})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Node < params[j].Node })

	canonical := struct {
		Sender     topology.Node        `json:"sender"`
		Receiver   topology.Node        `json:"receiver"`
		Edges      []topology.EdgeSpec  `json:"edges"`
		NodeParams []canonicalNodeParam `json:"node_params"`
	}{
		Sender:     spec.Sender,
		Receiver:   spec.Receiver,
		Edges:      spec.Edges,
		NodeParams: params,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("store: digesting topology: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
