// Package store persists enumeration runs: the topology a strategy ran
// against, its (sigma, tau, n_max) parameters, the minimal SAV tuples it
// generated, and (optionally) the throughput optimizer's result over those
// tuples.
//
// NDJSONWriter and ReadNDJSON implement spec.md §6's minimal persisted
// format -- one JSON object per line, no schema beyond the Record type
// itself. InMemoryStore is a process-local store. PostgresStore is the richer,
// query-able store for later inspection across many runs, grounded on the
// teacher's services/postgres_store.go. Neither is required for the
// correctness of any core operation; both are purely additive per §6
// EXPANSION.
package store
