/*
Package testutil provides test fixtures for the secure multipath
transmission engine: the README topology and the scenario builders
spec.md's worked examples are drawn from, plus small option-pattern
helpers for constructing variations on them without repeating adjacency
literals in every test file.

# Scenarios

	// The README topology: sender 1, receiver 3, six nodes, three paths.
	topo := testutil.ReadmeTopology()

	// Two parallel identical-parameter paths, customizable via options.
	topo := testutil.ParallelPathsTopology(
	    testutil.WithPathCount(2),
	    testutil.WithInterceptProb(0.5),
	    testutil.WithDropProb(0.5),
	)

This package is intended for testing purposes only and should not be used
in production code.
*/
package testutil
