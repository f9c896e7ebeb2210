package topology

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EdgeSpec is the wire representation of a single directed edge, optionally
// carrying a bandwidth capacity (0 means "uncapacitated" on the wire, and
// is simply omitted from the resulting Topology.EdgeBandwidths map).
type EdgeSpec struct {
	From      Node `json:"from" yaml:"from"`
	To        Node `json:"to" yaml:"to"`
	Bandwidth int  `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
}

// Spec is the external, serializable description of a Topology (§6
// EXPANSION): the adjacency structure as a flat edge list rather than
// Go's native adjacency map, so it reads naturally as JSON or YAML.
type Spec struct {
	Sender     Node                `json:"sender" yaml:"sender"`
	Receiver   Node                `json:"receiver" yaml:"receiver"`
	Edges      []EdgeSpec          `json:"edges" yaml:"edges"`
	NodeParams map[Node]NodeParams `json:"node_params,omitempty" yaml:"node_params,omitempty"`
	MaxPaths   int                 `json:"max_paths,omitempty" yaml:"max_paths,omitempty"`
}

// FromSpec builds and validates a Topology from its external
// representation. It does not call Build -- callers decide when to pay for
// path enumeration, same as a programmatically constructed Topology.
func FromSpec(s Spec) (*Topology, error) {
	if s.Sender == s.Receiver {
		return nil, fmt.Errorf("%w: sender and receiver must differ", ErrMalformedTopology)
	}
	if len(s.Edges) == 0 {
		return nil, fmt.Errorf("%w: no edges", ErrMalformedTopology)
	}

	t := New(AdjacencyList{}, s.Sender, s.Receiver)
	for _, e := range s.Edges {
		t.Adjacency[e.From] = append(t.Adjacency[e.From], e.To)
		if _, ok := t.Adjacency[e.To]; !ok {
			t.Adjacency[e.To] = nil
		}
		if e.Bandwidth > 0 {
			t.EdgeBandwidths[Edge{From: e.From, To: e.To}] = e.Bandwidth
		}
	}
	for n, p := range s.NodeParams {
		t.NodeParams[n] = p
	}
	t.MaxPaths = s.MaxPaths

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ToSpec renders a Topology back to its external representation, e.g. for
// persistence or round-tripping through the HTTP API.
func (t *Topology) ToSpec() Spec {
	s := Spec{
		Sender:     t.Sender,
		Receiver:   t.Receiver,
		NodeParams: t.NodeParams,
		MaxPaths:   t.MaxPaths,
	}
	for from, tos := range t.Adjacency {
		for _, to := range tos {
			edge := EdgeSpec{From: from, To: to}
			if bw, ok := t.EdgeBandwidths[Edge{From: from, To: to}]; ok {
				edge.Bandwidth = bw
			}
			s.Edges = append(s.Edges, edge)
		}
	}
	return s
}

// FromJSON parses a Spec from JSON and builds a Topology.
func FromJSON(data []byte) (*Topology, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("topology: decoding JSON spec: %w", err)
	}
	return FromSpec(s)
}

// FromYAML parses a Spec from YAML and builds a Topology.
func FromYAML(data []byte) (*Topology, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("topology: decoding YAML spec: %w", err)
	}
	return FromSpec(s)
}
