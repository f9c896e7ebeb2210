package simulate

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shwdsun/secure-multipath-transmission/field"
	"github.com/shwdsun/secure-multipath-transmission/prob"
	"github.com/shwdsun/secure-multipath-transmission/testutil"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

func smallPrime() *big.Int {
	// 2^31-1, a Mersenne prime small enough for fast trials.
	return big.NewInt((1 << 31) - 1)
}

func TestRunTrialRejectsMismatchedLengths(t *testing.T) {
	sim, err := New(smallPrime(), 1)
	require.NoError(t, err)
	_, err = sim.RunTrial([]topology.PathMetrics{{}}, []int{1, 2}, 1)
	assert.Error(t, err)
}

func TestRunTrialRejectsNonPositiveThreshold(t *testing.T) {
	sim, err := New(smallPrime(), 1)
	require.NoError(t, err)
	_, err = sim.RunTrial([]topology.PathMetrics{{}}, []int{3}, 0)
	assert.Error(t, err)
}

func TestRunTrialAlwaysDeliveredAlwaysReconstructs(t *testing.T) {
	sim, err := New(smallPrime(), 42)
	require.NoError(t, err)
	metrics := []topology.PathMetrics{{Epsilon: 0, Rho: 1}}
	for i := 0; i < 50; i++ {
		outcome, err := sim.RunTrial(metrics, []int{5}, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, outcome.DeliveredCount)
		assert.Equal(t, 0, outcome.LeakedCount)
		assert.True(t, outcome.Reconstructed)
	}
}

func TestRunTrialNeverDeliveredNeverReconstructs(t *testing.T) {
	sim, err := New(smallPrime(), 7)
	require.NoError(t, err)
	metrics := []topology.PathMetrics{{Epsilon: 1, Rho: 0}}
	for i := 0; i < 50; i++ {
		outcome, err := sim.RunTrial(metrics, []int{4}, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, outcome.DeliveredCount)
		assert.Equal(t, 4, outcome.LeakedCount)
		assert.False(t, outcome.Reconstructed)
	}
}

func TestRunDeterministicAcrossRepeatedSeed(t *testing.T) {
	metrics := []topology.PathMetrics{{Epsilon: 0.3, Rho: 0.6}, {Epsilon: 0.1, Rho: 0.8}}
	r1, err := Run(smallPrime(), 123, metrics, []int{3, 3}, 3, 200)
	require.NoError(t, err)
	r2, err := Run(smallPrime(), 123, metrics, []int{3, 3}, 3, 200)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

// analyticReliability and analyticBreach compute the same quantities
// RunTrial's independent per-share Bernoulli model should converge to, via
// the same binomial-convolution machinery the strategy package's Phase II
// feasibility check uses.
func analyticReliability(n []int, rho []float64, threshold int) float64 {
	pmf := prob.SumBinomials(n, rho, 1e-9, nil)
	return prob.TailGE(pmf, threshold)
}

func analyticBreach(n []int, eps []float64, threshold int) float64 {
	pmf := prob.SumBinomials(n, eps, 1e-9, nil)
	return prob.TailGE(pmf, threshold)
}

func TestRunReliabilityMatchesAnalyticPrediction(t *testing.T) {
	n := []int{4, 4}
	rho := []float64{0.7, 0.5}
	eps := []float64{0.2, 0.4}
	threshold := 4
	metrics := []topology.PathMetrics{
		{Epsilon: eps[0], Rho: rho[0]},
		{Epsilon: eps[1], Rho: rho[1]},
	}

	const nTrials = 20000
	res, err := Run(smallPrime(), 999, metrics, n, threshold, nTrials)
	require.NoError(t, err)

	want := analyticReliability(n, rho, threshold)
	tolerance := 5 * math.Sqrt(want*(1-want)/float64(nTrials))
	if tolerance < 0.01 {
		tolerance = 0.01
	}
	assert.InDelta(t, want, res.Reliability, tolerance)
}

func TestRunConfidentialityBreachMatchesAnalyticPrediction(t *testing.T) {
	n := []int{4, 4}
	rho := []float64{0.7, 0.5}
	eps := []float64{0.2, 0.4}
	threshold := 4
	metrics := []topology.PathMetrics{
		{Epsilon: eps[0], Rho: rho[0]},
		{Epsilon: eps[1], Rho: rho[1]},
	}

	const nTrials = 20000
	res, err := Run(smallPrime(), 999, metrics, n, threshold, nTrials)
	require.NoError(t, err)

	want := analyticBreach(n, eps, threshold)
	tolerance := 5 * math.Sqrt(want*(1-want)/float64(nTrials))
	if tolerance < 0.01 {
		tolerance = 0.01
	}
	assert.InDelta(t, want, res.ConfidentialityBreach, tolerance)
}

// TestRunScenarioS2ReadmeTopologyMatchesAnalyticPrediction checks spec.md's
// Scenario S2: against the README topology, SAV (0,5,0) (all shares on the
// path through nodes 4 and 5) with t=4, prime 257, seed 42, n_trials=10000,
// reliability and confidentiality breach should fall within their analytical
// 99%-ish interval, approximately 0.97 and 0.006 respectively.
func TestRunScenarioS2ReadmeTopologyMatchesAnalyticPrediction(t *testing.T) {
	topo := testutil.ReadmeTopology()
	require.NoError(t, topo.Build())
	metrics := topo.PathMetrics()

	n := []int{0, 5, 0}
	threshold := 4
	const nTrials = 10000

	rho := make([]float64, len(metrics))
	eps := make([]float64, len(metrics))
	for i, m := range metrics {
		rho[i] = m.Rho
		eps[i] = m.Epsilon
	}

	res, err := Run(big.NewInt(257), 42, metrics, n, threshold, nTrials)
	require.NoError(t, err)

	wantReliability := analyticReliability(n, rho, threshold)
	relTolerance := 5 * math.Sqrt(wantReliability*(1-wantReliability)/float64(nTrials))
	if relTolerance < 0.01 {
		relTolerance = 0.01
	}
	assert.InDelta(t, wantReliability, res.Reliability, relTolerance)
	assert.InDelta(t, 0.97, res.Reliability, 0.02)

	wantBreach := analyticBreach(n, eps, threshold)
	breachTolerance := 5 * math.Sqrt(wantBreach*(1-wantBreach)/float64(nTrials))
	if breachTolerance < 0.01 {
		breachTolerance = 0.01
	}
	assert.InDelta(t, wantBreach, res.ConfidentialityBreach, breachTolerance)
	assert.InDelta(t, 0.006, res.ConfidentialityBreach, 0.01)
}

func TestRunRejectsNonPositiveTrials(t *testing.T) {
	_, err := Run(smallPrime(), 1, []topology.PathMetrics{{}}, []int{1}, 1, 0)
	assert.Error(t, err)
}

func trustedLinearTopology() *topology.Topology {
	adj := topology.AdjacencyList{
		1: {2},
		2: {3},
		3: {4},
		4: nil,
	}
	topo := topology.New(adj, 1, 4)
	topo.NodeParams[2] = topology.NodeParams{}
	topo.NodeParams[3] = topology.NodeParams{}
	return topo
}

func TestRunTrialNodeWalkNoInterceptionAlwaysReconstructs(t *testing.T) {
	topo := trustedLinearTopology()
	require.NoError(t, topo.Build())

	sim, err := New(smallPrime(), 5)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		outcome, err := sim.RunTrialNodeWalk(topo, []int{5}, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, outcome.LeakedCount)
		assert.Equal(t, 0, outcome.TamperedCount)
		assert.Equal(t, 0, outcome.DroppedCount)
		assert.Equal(t, 5, outcome.DeliveredCount)
		assert.True(t, outcome.Reconstructed)
	}
}

func TestRunTrialNodeWalkCertainDropNeverReconstructs(t *testing.T) {
	adj := topology.AdjacencyList{
		1: {2},
		2: {3},
		3: nil,
	}
	topo := topology.New(adj, 1, 3)
	topo.NodeParams[2] = topology.NodeParams{PInt: 1, Delta: 1}
	require.NoError(t, topo.Build())

	sim, err := New(smallPrime(), 9)
	require.NoError(t, err)

	outcome, err := sim.RunTrialNodeWalk(topo, []int{4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.LeakedCount)
	assert.Equal(t, 4, outcome.DroppedCount)
	assert.Equal(t, 0, outcome.DeliveredCount)
	assert.False(t, outcome.Reconstructed)
}

func TestRunTrialNodeWalkCertainTamperStillDeliveredButWrong(t *testing.T) {
	adj := topology.AdjacencyList{
		1: {2},
		2: {3},
		3: nil,
	}
	topo := topology.New(adj, 1, 3)
	topo.NodeParams[2] = topology.NodeParams{PInt: 1, Delta: 0, Theta: 1}
	require.NoError(t, topo.Build())

	sim, err := New(smallPrime(), 11)
	require.NoError(t, err)

	outcome, err := sim.RunTrialNodeWalk(topo, []int{4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.LeakedCount)
	assert.Equal(t, 4, outcome.TamperedCount)
	assert.Equal(t, 4, outcome.DeliveredCount)
	// Tampered shares almost never happen to interpolate back to the true
	// secret (1-in-p chance per coincidence), so reconstruction fails.
	assert.False(t, outcome.Reconstructed)
}

func TestRunTrialNodeWalkRejectsMismatchedPathCount(t *testing.T) {
	topo := trustedLinearTopology()
	require.NoError(t, topo.Build())

	sim, err := New(smallPrime(), 1)
	require.NoError(t, err)
	_, err = sim.RunTrialNodeWalk(topo, []int{1, 1}, 1)
	assert.Error(t, err)
}

func TestRandReaderFillsRequestedLength(t *testing.T) {
	rng := newSeededRand(1)
	r := newRandReader(rng)
	for _, size := range []int{0, 1, 7, 8, 9, 16, 17, 31} {
		buf := make([]byte, size)
		n, err := r.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, size, n)
	}
}

func TestRandReaderProducesVaryingBytes(t *testing.T) {
	rng := newSeededRand(2)
	r := newRandReader(rng)
	buf1 := make([]byte, 16)
	buf2 := make([]byte, 16)
	_, _ = r.Read(buf1)
	_, _ = r.Read(buf2)
	assert.NotEqual(t, buf1, buf2)
}

func TestNewRejectsInvalidPrime(t *testing.T) {
	_, err := New(big.NewInt(4), 1)
	assert.Error(t, err)
}

func TestSimulatorSharesWithinFieldRange(t *testing.T) {
	sim, err := New(smallPrime(), 3)
	require.NoError(t, err)
	f, err := field.New(smallPrime())
	require.NoError(t, err)
	metrics := []topology.PathMetrics{{Epsilon: 0, Rho: 1}}
	outcome, err := sim.RunTrial(metrics, []int{1}, 1)
	require.NoError(t, err)
	assert.True(t, f.Contains(outcome.OriginalSecret))
}
