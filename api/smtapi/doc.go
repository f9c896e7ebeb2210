// Package smtapi exposes the secure multipath transmission engine's core
// operations as HTTP routes: submit a topology, run a phase strategy's
// minimal-tuple enumeration, run the throughput optimizer, run a Monte
// Carlo simulation. Registered against an api/httpserver.BaseServer via
// RegisterRoutes.
package smtapi
