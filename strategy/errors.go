package strategy

import "errors"

var (
	// ErrInfeasibleParameters is returned by constructors when sigma or tau
	// fall outside their valid ranges.
	ErrInfeasibleParameters = errors.New("strategy: infeasible sigma/tau parameters")

	// ErrBudgetExhausted is a non-fatal signal that GenerateMinimalTuples
	// hit nMax before converging; callers may retry with a larger budget.
	ErrBudgetExhausted = errors.New("strategy: share budget exhausted before convergence")

	// ErrPhaseNotImplemented is returned by Phase3Strategy's methods. The
	// interface slot exists so callers can select a phase strategy
	// uniformly; the tamper-aware feasibility analysis itself is future
	// work.
	ErrPhaseNotImplemented = errors.New("strategy: phase III is an interface-only stub")
)
