package smtapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shwdsun/secure-multipath-transmission/field"
	"github.com/shwdsun/secure-multipath-transmission/optimizer"
	"github.com/shwdsun/secure-multipath-transmission/simulate"
	"github.com/shwdsun/secure-multipath-transmission/store"
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// Handler implements httpserver.RouteRegistrar for the engine's domain
// routes. Store is optional; when set, successful tuple-enumeration and
// optimizer calls are recorded as enumeration runs.
type Handler struct {
	Log     *slog.Logger
	Store   *store.InMemoryStore
	Backend optimizer.Backend
}

// NewHandler constructs a Handler with a BranchAndBoundBackend default.
func NewHandler(log *slog.Logger) *Handler {
	return &Handler{Log: log, Backend: &optimizer.BranchAndBoundBackend{}}
}

// RegisterRoutes registers the engine's domain routes with r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/topology", h.handleSubmitTopology)
	r.Post("/strategy/{phase}/tuples", h.handleGenerateTuples)
	r.Post("/optimize", h.handleOptimize)
	r.Post("/simulate", h.handleSimulate)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("encoding response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}

// topologySubmission is the shared request envelope: every domain route
// that needs a topology takes it this way rather than a pre-built digest,
// since the API has no persistence dependency on the caller's side.
type topologySubmission struct {
	Topology topology.Spec `json:"topology"`
}

func (s topologySubmission) build() (*topology.Topology, error) {
	topo, err := topology.FromSpec(s.Topology)
	if err != nil {
		return nil, err
	}
	if err := topo.Build(); err != nil {
		return nil, err
	}
	return topo, nil
}

type submitTopologyResponse struct {
	Digest      string                 `json:"digest"`
	NumPaths    int                    `json:"num_paths"`
	PathMetrics []topology.PathMetrics `json:"path_metrics"`
}

// handleSubmitTopology validates and builds a topology, returning its
// content digest, path count, and per-path metrics -- without persisting
// anything. Callers use the digest as a stable reference in later calls
// that accept a topology by value.
func (h *Handler) handleSubmitTopology(w http.ResponseWriter, r *http.Request) {
	var req topologySubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	topo, err := req.build()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	digest, err := store.TopologyDigest(topo)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, submitTopologyResponse{
		Digest:      digest,
		NumPaths:    topo.NumPaths(),
		PathMetrics: topo.PathMetrics(),
	})
}

type generateTuplesRequest struct {
	Topology topology.Spec `json:"topology"`
	Sigma    float64       `json:"sigma"`
	Tau      float64       `json:"tau"`
	NMax     int           `json:"n_max"`
}

type generateTuplesResponse struct {
	Tuples          []strategy.SAVTuple `json:"tuples"`
	BudgetExhausted bool                `json:"budget_exhausted"`
}

// handleGenerateTuples runs the named phase's minimal-tuple enumeration
// against a submitted topology. {phase} is "1", "2", or "3"; a recorded
// run's Phase field holds strategy.Phase's String() ("I", "II", "III").
func (h *Handler) handleGenerateTuples(w http.ResponseWriter, r *http.Request) {
	phase, err := parsePhase(chi.URLParam(r, "phase"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req generateTuplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	topo, err := (topologySubmission{Topology: req.Topology}).build()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	s, err := strategy.New(phase, topo.PathMetrics(), req.Sigma, req.Tau)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	tuples, err := s.GenerateMinimalTuples(req.NMax)
	budgetExhausted := errors.Is(err, strategy.ErrBudgetExhausted)
	if err != nil && !budgetExhausted {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if h.Store != nil {
		digest, digestErr := store.TopologyDigest(topo)
		if digestErr == nil {
			_, _ = h.Store.Save(store.Record{
				TopologyDigest: digest,
				Phase:          phase.String(),
				Sigma:          req.Sigma,
				Tau:            req.Tau,
				NMax:           req.NMax,
				Tuples:         tuples,
			})
		}
	}

	h.writeJSON(w, http.StatusOK, generateTuplesResponse{Tuples: tuples, BudgetExhausted: budgetExhausted})
}

func parsePhase(raw string) (strategy.Phase, error) {
	switch raw {
	case "1":
		return strategy.PhaseI, nil
	case "2":
		return strategy.PhaseII, nil
	case "3":
		return strategy.PhaseIII, nil
	default:
		return 0, fmt.Errorf("smtapi: unknown phase %q", raw)
	}
}

type optimizeRequest struct {
	Topology topology.Spec       `json:"topology"`
	Tuples   []strategy.SAVTuple `json:"tuples"`
}

// handleOptimize runs the configured Backend over the submitted topology's
// paths and a set of already-generated tuples.
func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	topo, err := (topologySubmission{Topology: req.Topology}).build()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	problem := optimizer.NewProblem(req.Tuples, topo.Paths(), topo.EdgeBandwidths)
	result, err := h.Backend.Solve(r.Context(), problem)
	if err != nil {
		var solveErr *optimizer.SolverError
		if errors.As(err, &solveErr) {
			h.writeError(w, http.StatusUnprocessableEntity, solveErr)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if h.Store != nil {
		digest, digestErr := store.TopologyDigest(topo)
		if digestErr == nil {
			_, _ = h.Store.Save(store.Record{
				TopologyDigest:  digest,
				Phase:           "optimize",
				Tuples:          req.Tuples,
				OptimizerResult: result,
			})
		}
	}

	h.writeJSON(w, http.StatusOK, result)
}

type simulateRequest struct {
	Metrics   []topology.PathMetrics `json:"metrics"`
	N         []int                  `json:"n"`
	Threshold int                    `json:"threshold"`
	Prime     string                 `json:"prime,omitempty"`
	Seed      uint64                 `json:"seed"`
	NTrials   int                    `json:"n_trials"`
}

// handleSimulate runs nTrials of the literal per-share Monte Carlo model
// and returns the aggregated empirical statistics. Prime defaults to
// field.DefaultPrime when omitted.
func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	prime := field.DefaultPrime
	if req.Prime != "" {
		p, ok := new(big.Int).SetString(req.Prime, 10)
		if !ok {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("smtapi: invalid prime %q", req.Prime))
			return
		}
		prime = p
	}

	result, err := simulate.Run(prime, req.Seed, req.Metrics, req.N, req.Threshold, req.NTrials)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
