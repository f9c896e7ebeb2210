package strategy

import "github.com/shwdsun/secure-multipath-transmission/topology"

// Phase3Strategy is the interface slot for a tamper-capable adversary
// model: one where a node can corrupt a share's payload in transit rather
// than only intercepting or dropping it. The feasibility analysis and
// minimal-tuple search for this model are open research questions this
// module does not attempt to answer; constructing one and selecting it
// through PhaseStrategy is supported so callers can branch on phase
// uniformly. IsFeasible always reports infeasible; GenerateMinimalTuples
// returns ErrPhaseNotImplemented.
type Phase3Strategy struct {
	metrics []topology.PathMetrics
	sigma   float64
	tau     float64
}

// NewPhase3Strategy constructs a Phase3Strategy. Construction succeeds;
// only IsFeasible and GenerateMinimalTuples are unimplemented.
func NewPhase3Strategy(metrics []topology.PathMetrics, sigma, tau float64) (*Phase3Strategy, error) {
	if err := validateSigmaTau(sigma, tau); err != nil {
		return nil, err
	}
	return &Phase3Strategy{metrics: metrics, sigma: sigma, tau: tau}, nil
}

func (s *Phase3Strategy) IsFeasible(n []int) (bool, int) {
	return false, 0
}

func (s *Phase3Strategy) IsMinimal(n []int) bool {
	return false
}

func (s *Phase3Strategy) GenerateMinimalTuples(nMax int) ([]SAVTuple, error) {
	return nil, ErrPhaseNotImplemented
}
