package strategy

import (
	"fmt"

	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Phase identifies which adversary model a PhaseStrategy was built for.
type Phase int

const (
	PhaseI Phase = iota
	PhaseII
	PhaseIII
)

func (p Phase) String() string {
	switch p {
	case PhaseI:
		return "I"
	case PhaseII:
		return "II"
	case PhaseIII:
		return "III"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// New constructs the PhaseStrategy for the requested phase against the
// given per-path metrics and (sigma, tau) target.
func New(phase Phase, metrics []topology.PathMetrics, sigma, tau float64) (PhaseStrategy, error) {
	switch phase {
	case PhaseI:
		return NewPhase1Strategy(metrics, sigma, tau)
	case PhaseII:
		return NewPhase2Strategy(metrics, sigma, tau)
	case PhaseIII:
		return NewPhase3Strategy(metrics, sigma, tau)
	default:
		return nil, fmt.Errorf("strategy: unknown phase %v", phase)
	}
}
