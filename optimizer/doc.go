// Package optimizer chooses how many times to repeat each minimal
// share-allocation vector so as to maximize total throughput without
// exceeding any edge's bandwidth capacity, per spec.md §4.5. The integer
// program is solved through a narrow Backend capability so the default
// branch-and-bound implementation can be swapped for a greedy
// approximation or a remote commercial solver without touching callers.
package optimizer
