package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shwdsun/secure-multipath-transmission/topology"
)

// RemoteBackend dispatches a solve to an external ILP service (e.g. a
// Gurobi-backed solver sidecar) over HTTP, for problem sizes or SLAs the
// in-process branch-and-bound can't meet. Grounded on the teacher's
// RemoteDCAPProvider.Attest: a single JSON request/response round trip
// against a configured URL with a caller-supplied timeout.
type RemoteBackend struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

type remoteRequest struct {
	NumTuples  int              `json:"num_tuples"`
	EdgeLoad   map[string][]int `json:"edge_load"`
	Capacities map[string]int   `json:"capacities"`
}

type remoteResponse struct {
	Status     string      `json:"status"`
	Allocation map[int]int `json:"allocation"`
	Objective  int         `json:"objective"`
	Error      string      `json:"error,omitempty"`
}

// Solve POSTs the problem's edge-load matrix and capacities to the
// configured URL and parses the solver's allocation back.
func (b *RemoteBackend) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := b.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := remoteRequest{
		NumTuples:  len(problem.Tuples),
		EdgeLoad:   map[string][]int{},
		Capacities: map[string]int{},
	}
	for e, edgeCap := range problem.Capacities {
		key := edgeKey(e)
		body.Capacities[key] = edgeCap
		loads := make([]int, len(problem.Tuples))
		for i := range problem.Tuples {
			loads[i] = problem.Load(e, i)
		}
		body.EdgeLoad[key] = loads
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, b.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if reqCtx.Err() != nil {
			return nil, &SolverError{Kind: KindTimeout, Err: err}
		}
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("calling remote solver: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("remote solver returned status %d: %s", resp.StatusCode, string(raw))}
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("decoding response: %w", err)}
	}

	switch out.Status {
	case "optimal":
		return &Result{Status: StatusOptimal, Allocation: out.Allocation, Objective: out.Objective}, nil
	case "infeasible":
		return &Result{Status: StatusInfeasible, Allocation: map[int]int{}}, nil
	case "unbounded":
		return nil, &SolverError{Kind: KindUnbounded}
	default:
		return nil, &SolverError{Kind: KindBackendFailure, Err: fmt.Errorf("remote solver reported unknown status %q: %s", out.Status, out.Error)}
	}
}

func edgeKey(e topology.Edge) string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}
