// Package httpserver provides a reusable HTTP server with standard health
// endpoints, graceful shutdown, and flexible routing, shared by every
// HTTP-exposed component of this engine.
//
// # Key Components
//
//   - BaseServer: core HTTP server with health checks, metrics, and lifecycle management
//   - RouteRegistrar: interface for components to register their routes with the server
//
// # Server Lifecycle
//
//  1. Initialization: configure the server with HTTP settings and route registrars
//  2. Startup: run the HTTP server in a background goroutine
//  3. Operation: handle requests with structured logging
//  4. Readiness Control: drain/undrain for load balancers
//  5. Graceful Shutdown: wait for in-flight requests to complete
//
// # Health and Diagnostics
//
//   - Liveness Check: /livez
//   - Readiness Check: /readyz
//   - Drain Control: /drain, /undrain
//   - Metrics: optional Prometheus endpoint, mounted at Config.MetricsPath
//   - Profiling: optional pprof endpoints when Config.EnablePprof is set
//
// # Usage Example
//
//	func (h *MyHandler) RegisterRoutes(r chi.Router) {
//	    r.Post("/topology", h.handleSubmitTopology)
//	}
//
//	srv := httpserver.New(cfg, handler)
//	srv.RunInBackground()
//	defer srv.Shutdown()
package httpserver
