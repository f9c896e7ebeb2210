package simulate

import (
	"fmt"
	"math/big"
	"math/rand/v2"

	"github.com/shwdsun/secure-multipath-transmission/field"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// TrialOutcome is the per-trial detail spec.md §4.6 describes: how many
// shares were intercepted, how many survived to the receiver, and whether
// reconstruction succeeded.
type TrialOutcome struct {
	LeakedCount    int
	DeliveredCount int
	Reconstructed  bool
	OriginalSecret *big.Int
}

// Result aggregates n_trials independent TrialOutcomes into the empirical
// statistics spec.md §4.6/§8 compare against the analytical predictions.
type Result struct {
	NTrials               int     `json:"n_trials"`
	NReconstructed        int     `json:"n_reconstructed"`
	NLeaked               int     `json:"n_leaked"`
	Reliability           float64 `json:"reliability"`
	ConfidentialityBreach float64 `json:"confidentiality_breach"`
	AvgSharesReceived     float64 `json:"avg_shares_received"`
	AvgSharesLeaked       float64 `json:"avg_shares_leaked"`
}

// Simulator runs trials against fixed per-path metrics, a field, and a
// seedable PRNG independent of the field's own cryptographic randomness.
type Simulator struct {
	field *field.Field
	rng   *rand.Rand
}

// New constructs a Simulator over the given prime, seeded deterministically.
func New(prime *big.Int, seed uint64) (*Simulator, error) {
	f, err := field.New(prime)
	if err != nil {
		return nil, err
	}
	return &Simulator{field: f, rng: newSeededRand(seed)}, nil
}

// RunTrial executes a single trial per spec.md §4.6: share a uniformly
// random secret into sum(n) shares at threshold t, route n_j of them down
// path j, mark each share intercepted with probability metrics[j].Epsilon
// and (independently) dropped with probability 1-metrics[j].Rho, then
// attempt reconstruction from whatever arrives undropped.
func (s *Simulator) RunTrial(metrics []topology.PathMetrics, n []int, threshold int) (TrialOutcome, error) {
	if len(n) != len(metrics) {
		return TrialOutcome{}, fmt.Errorf("simulate: n has %d paths, metrics has %d", len(n), len(metrics))
	}

	total := 0
	for _, nj := range n {
		total += nj
	}
	if total == 0 || threshold <= 0 {
		return TrialOutcome{}, fmt.Errorf("simulate: n and threshold must be positive")
	}

	secret := randBigInt(s.rng, s.field.Prime())
	shares, err := s.field.Share(secret, total, threshold, newRandReader(s.rng))
	if err != nil {
		return TrialOutcome{}, err
	}

	var delivered []field.Share
	leaked := 0
	idx := 0
	for j, nj := range n {
		eps := metrics[j].Epsilon
		rho := metrics[j].Rho
		for k := 0; k < nj; k++ {
			share := shares[idx]
			idx++

			if s.rng.Float64() < eps {
				leaked++
			}
			if s.rng.Float64() < rho {
				delivered = append(delivered, share)
			}
		}
	}

	outcome := TrialOutcome{
		LeakedCount:    leaked,
		DeliveredCount: len(delivered),
		OriginalSecret: secret,
	}

	if len(delivered) >= threshold {
		reconstructed, err := s.field.ReconstructAtLeast(delivered, threshold)
		if err == nil && reconstructed.Cmp(secret) == 0 {
			outcome.Reconstructed = true
		}
	}

	return outcome, nil
}

// Run executes nTrials independent trials and aggregates the results.
// Trials are partitioned across goroutines in fixed-size chunks, each with
// its own independently seeded Simulator so results stay deterministic
// regardless of scheduling -- grounded on the teacher's
// DeriveBlindingVector chunking, applied to trial partitioning.
func Run(prime *big.Int, seed uint64, metrics []topology.PathMetrics, n []int, threshold int, nTrials int) (Result, error) {
	if nTrials <= 0 {
		return Result{}, fmt.Errorf("simulate: n_trials must be positive")
	}

	const chunkSize = 500
	if nTrials < chunkSize {
		sim, err := New(prime, seed)
		if err != nil {
			return Result{}, err
		}
		return runChunk(sim, metrics, n, threshold, nTrials)
	}

	nChunks := (nTrials + chunkSize - 1) / chunkSize
	type chunkOutcome struct {
		result Result
		err    error
	}
	outcomes := make([]chunkOutcome, nChunks)
	doneCh := make(chan struct{}, nChunks)

	remaining := nTrials
	for c := 0; c < nChunks; c++ {
		size := chunkSize
		if remaining < chunkSize {
			size = remaining
		}
		remaining -= size

		go func(c, size int) {
			sim, err := New(prime, seed+uint64(c))
			if err != nil {
				outcomes[c] = chunkOutcome{err: err}
				doneCh <- struct{}{}
				return
			}
			res, err := runChunk(sim, metrics, n, threshold, size)
			outcomes[c] = chunkOutcome{result: res, err: err}
			doneCh <- struct{}{}
		}(c, size)
	}
	for i := 0; i < nChunks; i++ {
		<-doneCh
	}

	var merged Result
	for _, o := range outcomes {
		if o.err != nil {
			return Result{}, o.err
		}
		merged.NTrials += o.result.NTrials
		merged.NReconstructed += o.result.NReconstructed
		merged.NLeaked += o.result.NLeaked
		merged.AvgSharesReceived += o.result.AvgSharesReceived * float64(o.result.NTrials)
		merged.AvgSharesLeaked += o.result.AvgSharesLeaked * float64(o.result.NTrials)
	}
	if merged.NTrials > 0 {
		merged.Reliability = float64(merged.NReconstructed) / float64(merged.NTrials)
		merged.ConfidentialityBreach = float64(merged.NLeaked) / float64(merged.NTrials)
		merged.AvgSharesReceived /= float64(merged.NTrials)
		merged.AvgSharesLeaked /= float64(merged.NTrials)
	}
	return merged, nil
}

func runChunk(sim *Simulator, metrics []topology.PathMetrics, n []int, threshold int, nTrials int) (Result, error) {
	var nReconstructed, nLeaked, totalReceived, totalLeaked int
	for i := 0; i < nTrials; i++ {
		outcome, err := sim.RunTrial(metrics, n, threshold)
		if err != nil {
			return Result{}, err
		}
		if outcome.Reconstructed {
			nReconstructed++
		}
		if outcome.LeakedCount >= threshold {
			nLeaked++
		}
		totalReceived += outcome.DeliveredCount
		totalLeaked += outcome.LeakedCount
	}
	return Result{
		NTrials:               nTrials,
		NReconstructed:        nReconstructed,
		NLeaked:               nLeaked,
		Reliability:           float64(nReconstructed) / float64(nTrials),
		ConfidentialityBreach: float64(nLeaked) / float64(nTrials),
		AvgSharesReceived:     float64(totalReceived) / float64(nTrials),
		AvgSharesLeaked:       float64(totalLeaked) / float64(nTrials),
	}, nil
}

// randBigInt draws a value uniformly in [0, prime) for this trial's secret.
// The slight modulo bias from reading (prime.BitLen()+7)/8 whole bytes is
// immaterial here -- this is a simulation input, not a value a secrecy
// guarantee depends on; field.Share below is what production code uses to
// actually protect a secret, and it samples via crypto/rand instead.
func randBigInt(rng *rand.Rand, prime *big.Int) *big.Int {
	buf := make([]byte, (prime.BitLen()+7)/8)
	_, _ = newRandReader(rng).Read(buf)
	candidate := new(big.Int).SetBytes(buf)
	return candidate.Mod(candidate, prime)
}
