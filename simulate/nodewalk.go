package simulate

import (
	"fmt"

	"github.com/shwdsun/secure-multipath-transmission/field"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// NodeWalkOutcome is TrialOutcome's richer counterpart for the per-node
// walk: it additionally distinguishes tampered shares (corrupted payload,
// still delivered) from dropped ones, matching original_source's
// TrialOutcome.
type NodeWalkOutcome struct {
	TrialOutcome
	TamperedCount int
	DroppedCount  int
}

// RunTrialNodeWalk walks each share through every interior node of its
// path individually, rather than applying a single aggregated
// epsilon/rho draw per share. At each node: with probability p_int the
// share is intercepted; conditional on interception, with probability
// delta it is also dropped, else with probability theta it is tampered
// (payload replaced by a uniformly random field element) -- otherwise it
// passes through unchanged. This is the model original_source's
// TransmissionSimulator.simulate_trial implements; spec.md's core
// reliability/confidentiality math (§3, §4.4) does not require it, but it
// gives a more faithful trial for topologies where theta is nonzero.
func (s *Simulator) RunTrialNodeWalk(topo *topology.Topology, n []int, threshold int) (NodeWalkOutcome, error) {
	paths := topo.Paths()
	if len(n) != len(paths) {
		return NodeWalkOutcome{}, fmt.Errorf("simulate: n has %d paths, topology has %d", len(n), len(paths))
	}

	total := 0
	for _, nj := range n {
		total += nj
	}
	if total == 0 || threshold <= 0 {
		return NodeWalkOutcome{}, fmt.Errorf("simulate: n and threshold must be positive")
	}

	secret := randBigInt(s.rng, s.field.Prime())
	shares, err := s.field.Share(secret, total, threshold, newRandReader(s.rng))
	if err != nil {
		return NodeWalkOutcome{}, err
	}

	var delivered []field.Share
	leaked, tampered, dropped := 0, 0, 0
	idx := 0

	for j, nj := range n {
		path := paths[j]
		for k := 0; k < nj; k++ {
			share := shares[idx]
			idx++

			intercepted, wasDropped, wasTampered := false, false, false
			for _, node := range path[1 : len(path)-1] {
				params := topo.NodeParamsFor(node)
				if s.rng.Float64() >= params.PInt {
					continue
				}
				intercepted = true

				roll := s.rng.Float64()
				switch {
				case roll < params.Delta:
					wasDropped = true
				case roll < params.Delta+params.Theta:
					wasTampered = true
				}
				if wasDropped {
					break
				}
			}

			if intercepted {
				leaked++
			}
			switch {
			case wasDropped:
				dropped++
			case wasTampered:
				tampered++
				corrupted := randBigInt(s.rng, s.field.Prime())
				delivered = append(delivered, field.Share{X: share.X, Y: corrupted})
			default:
				delivered = append(delivered, share)
			}
		}
	}

	outcome := NodeWalkOutcome{
		TrialOutcome: TrialOutcome{
			LeakedCount:    leaked,
			DeliveredCount: len(delivered),
			OriginalSecret: secret,
		},
		TamperedCount: tampered,
		DroppedCount:  dropped,
	}

	if len(delivered) >= threshold {
		reconstructed, err := s.field.ReconstructAtLeast(delivered, threshold)
		if err == nil && reconstructed.Cmp(secret) == 0 {
			outcome.Reconstructed = true
		}
	}

	return outcome, nil
}
