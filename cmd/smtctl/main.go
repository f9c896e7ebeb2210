// Command smtctl runs the secure multipath transmission engine's core
// operations offline, against a topology file, without a running server.
//
// # Commands
//
// topology: build a topology from a JSON spec and print its digest,
// path count, and per-path metrics.
//
//	smtctl topology --file=topo.json
//
// tuples: enumerate a phase strategy's minimal share-allocation tuples.
//
//	smtctl tuples --file=topo.json --phase=1 --sigma=0.9 --tau=0.1 --n-max=20
//
// optimize: run the throughput optimizer's branch-and-bound backend over
// a topology and a tuple set produced by "tuples".
//
//	smtctl optimize --file=topo.json --tuples=tuples.json
//
// simulate: run a Monte Carlo trial batch over a fixed allocation.
//
//	smtctl simulate --file=topo.json --n=2,2,2 --threshold=3 --trials=10000
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shwdsun/secure-multipath-transmission/field"
	"github.com/shwdsun/secure-multipath-transmission/optimizer"
	"github.com/shwdsun/secure-multipath-transmission/simulate"
	"github.com/shwdsun/secure-multipath-transmission/store"
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "topology":
		err = runTopology(os.Args[2:])
	case "tuples":
		err = runTuples(os.Args[2:])
	case "optimize":
		err = runOptimize(os.Args[2:])
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`smtctl - offline secure multipath transmission engine tools

Usage:
  smtctl <command> [options]

Commands:
  topology   Build a topology and print its digest and path metrics
  tuples     Enumerate a phase strategy's minimal share-allocation tuples
  optimize   Run the throughput optimizer over a tuple set
  simulate   Run a Monte Carlo trial batch over a fixed allocation

Run 'smtctl <command> -h' for command-specific options.`)
}

func loadTopology(path string) (*topology.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	topo, err := topology.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := topo.Build(); err != nil {
		return nil, err
	}
	return topo, nil
}

func runTopology(args []string) error {
	fs := flag.NewFlagSet("topology", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON topology spec (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	topo, err := loadTopology(*file)
	if err != nil {
		return err
	}

	digest, err := store.TopologyDigest(topo)
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{
		"digest":       digest,
		"num_paths":    topo.NumPaths(),
		"path_metrics": topo.PathMetrics(),
	})
}

func runTuples(args []string) error {
	fs := flag.NewFlagSet("tuples", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON topology spec (required)")
	phaseFlag := fs.Int("phase", 1, "strategy phase: 1, 2, or 3")
	sigma := fs.Float64("sigma", 0.9, "minimum reliability target")
	tau := fs.Float64("tau", 0.1, "maximum confidentiality breach tolerance")
	nMax := fs.Int("n-max", 20, "maximum total shares to search up to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	topo, err := loadTopology(*file)
	if err != nil {
		return err
	}

	var phase strategy.Phase
	switch *phaseFlag {
	case 1:
		phase = strategy.PhaseI
	case 2:
		phase = strategy.PhaseII
	case 3:
		phase = strategy.PhaseIII
	default:
		return fmt.Errorf("--phase must be 1, 2, or 3")
	}

	s, err := strategy.New(phase, topo.PathMetrics(), *sigma, *tau)
	if err != nil {
		return err
	}

	tuples, genErr := s.GenerateMinimalTuples(*nMax)
	if genErr != nil && genErr != strategy.ErrBudgetExhausted {
		return genErr
	}

	if err := printJSON(tuples); err != nil {
		return err
	}
	if genErr == strategy.ErrBudgetExhausted {
		fmt.Fprintln(os.Stderr, "warning: share budget exhausted before convergence")
	}
	return nil
}

func runOptimize(args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON topology spec (required)")
	tuplesFile := fs.String("tuples", "", "path to a JSON tuple array produced by 'tuples' (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *tuplesFile == "" {
		return fmt.Errorf("--file and --tuples are required")
	}

	topo, err := loadTopology(*file)
	if err != nil {
		return err
	}

	tuplesData, err := os.ReadFile(*tuplesFile)
	if err != nil {
		return err
	}
	var tuples []strategy.SAVTuple
	if err := json.Unmarshal(tuplesData, &tuples); err != nil {
		return err
	}

	problem := optimizer.NewProblem(tuples, topo.Paths(), topo.EdgeBandwidths)
	backend := &optimizer.BranchAndBoundBackend{}
	result, err := backend.Solve(context.Background(), problem)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	file := fs.String("file", "", "path to a JSON topology spec (required)")
	nCSV := fs.String("n", "", "comma-separated per-path share counts, e.g. 2,2,2 (required)")
	threshold := fs.Int("threshold", 0, "reconstruction threshold (required)")
	trials := fs.Int("trials", 10000, "number of Monte Carlo trials")
	seed := fs.Uint64("seed", 1, "PRNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *nCSV == "" || *threshold == 0 {
		return fmt.Errorf("--file, --n, and --threshold are required")
	}

	topo, err := loadTopology(*file)
	if err != nil {
		return err
	}

	n, err := parseIntCSV(*nCSV)
	if err != nil {
		return err
	}

	result, err := simulate.Run(field.DefaultPrime, *seed, topo.PathMetrics(), n, *threshold, *trials)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func parseIntCSV(s string) ([]int, error) {
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			var v int
			if _, err := fmt.Sscanf(s[start:i], "%d", &v); err != nil {
				return nil, fmt.Errorf("invalid integer in %q: %w", s, err)
			}
			out = append(out, v)
			start = i + 1
		}
	}
	return out, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
