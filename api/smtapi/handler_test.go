package smtapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shwdsun/secure-multipath-transmission/optimizer"
	"github.com/shwdsun/secure-multipath-transmission/store"
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func readmeSpec() topology.Spec {
	return topology.Spec{
		Sender:   1,
		Receiver: 4,
		Edges: []topology.EdgeSpec{
			{From: 1, To: 2, Bandwidth: 10},
			{From: 2, To: 4, Bandwidth: 10},
			{From: 1, To: 3, Bandwidth: 10},
			{From: 3, To: 4, Bandwidth: 10},
		},
		NodeParams: map[topology.Node]topology.NodeParams{
			2: {PInt: 0.1, Delta: 0.5, Theta: 0.5},
			3: {PInt: 0.1, Delta: 0.5, Theta: 0.5},
		},
		MaxPaths: 10,
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleSubmitTopologyReturnsDigestAndMetrics(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, testRouter(h), http.MethodPost, "/topology", topologySubmission{Topology: readmeSpec()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp submitTopologyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Digest)
	assert.Equal(t, 2, resp.NumPaths)
	assert.Len(t, resp.PathMetrics, 2)
}

func TestHandleSubmitTopologyRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/topology", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitTopologyRejectsDisconnectedGraph(t *testing.T) {
	h := newTestHandler()
	spec := readmeSpec()
	spec.Receiver = 99
	rec := doJSON(t, testRouter(h), http.MethodPost, "/topology", topologySubmission{Topology: spec})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateTuplesRecordsToStoreWhenConfigured(t *testing.T) {
	h := newTestHandler()
	h.Store = store.NewInMemoryStore()
	spec := readmeSpec()
	rec := doJSON(t, testRouter(h), http.MethodPost, "/strategy/1/tuples", generateTuplesRequest{
		Topology: spec,
		Sigma:    0.9,
		Tau:      0.5,
		NMax:     20,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateTuplesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.BudgetExhausted)
	assert.NotEmpty(t, resp.Tuples)

	topo, err := topology.FromSpec(spec)
	require.NoError(t, err)
	require.NoError(t, topo.Build())
	digest, err := store.TopologyDigest(topo)
	require.NoError(t, err)

	records, err := h.Store.ListByDigest(digest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "I", records[0].Phase)
	assert.Equal(t, resp.Tuples, records[0].Tuples)
}

func TestHandleGenerateTuplesRejectsUnknownPhase(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, testRouter(h), http.MethodPost, "/strategy/9/tuples", generateTuplesRequest{
		Topology: readmeSpec(),
		Sigma:    0.9,
		Tau:      0.5,
		NMax:     20,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleOptimizeReturnsOptimalAllocation(t *testing.T) {
	h := newTestHandler()
	spec := readmeSpec()
	tuples := []strategy.SAVTuple{
		{N: []int{1, 0}, T: 1},
		{N: []int{0, 1}, T: 1},
	}
	rec := doJSON(t, testRouter(h), http.MethodPost, "/optimize", optimizeRequest{Topology: spec, Tuples: tuples})
	require.Equal(t, http.StatusOK, rec.Code)

	var result optimizer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, optimizer.StatusOptimal, result.Status)
}

func TestHandleOptimizeRecordsToStoreWhenConfigured(t *testing.T) {
	h := newTestHandler()
	h.Store = store.NewInMemoryStore()
	spec := readmeSpec()
	tuples := []strategy.SAVTuple{
		{N: []int{1, 0}, T: 1},
		{N: []int{0, 1}, T: 1},
	}
	rec := doJSON(t, testRouter(h), http.MethodPost, "/optimize", optimizeRequest{Topology: spec, Tuples: tuples})
	require.Equal(t, http.StatusOK, rec.Code)

	var result optimizer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	topo, err := topology.FromSpec(spec)
	require.NoError(t, err)
	require.NoError(t, topo.Build())
	digest, err := store.TopologyDigest(topo)
	require.NoError(t, err)

	records, err := h.Store.ListByDigest(digest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "optimize", records[0].Phase)
	require.NotNil(t, records[0].OptimizerResult)
	assert.Equal(t, result.Objective, records[0].OptimizerResult.Objective)
}

func TestHandleSimulateReturnsAggregateResult(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, testRouter(h), http.MethodPost, "/simulate", simulateRequest{
		Metrics:   []topology.PathMetrics{{Epsilon: 0.1, Rho: 0.1}, {Epsilon: 0.1, Rho: 0.1}},
		N:         []int{2, 2},
		Threshold: 3,
		Seed:      1,
		NTrials:   500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result, "reliability")
}

func TestHandleSimulateRejectsBadPrime(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, testRouter(h), http.MethodPost, "/simulate", simulateRequest{
		Metrics:   []topology.PathMetrics{{Epsilon: 0.1, Rho: 0.1}},
		N:         []int{2},
		Threshold: 1,
		Prime:     "not-a-number",
		NTrials:   10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
