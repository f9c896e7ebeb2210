// Package cmd provides CLI entry points for the secure multipath
// transmission engine.
//
// # Commands
//
// smtapi: runs the HTTP API (topology submission, tuple enumeration,
// optimization, simulation) behind the standard health/metrics endpoints.
//
//	go run ./cmd/smtapi --addr=:8090 --metrics-path=/metrics
//
// smtctl: runs the same operations offline against a topology file,
// without a server.
//
//	go run ./cmd/smtctl topology --file=topo.json
//	go run ./cmd/smtctl tuples --file=topo.json --phase=1 --sigma=0.9 --tau=0.1
//	go run ./cmd/smtctl optimize --file=topo.json --tuples=tuples.json
//	go run ./cmd/smtctl simulate --file=topo.json --n=2,2,2 --threshold=3
package cmd
