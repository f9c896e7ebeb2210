// Command smtapi runs the secure multipath transmission engine's HTTP API:
// topology submission, phase-strategy tuple enumeration, throughput
// optimization, and Monte Carlo simulation, each exposed as a route under
// api/smtapi and served behind api/httpserver's standard health/metrics
// endpoints.
//
// # Usage
//
//	go run ./cmd/smtapi --addr=:8090 --metrics-path=/metrics
//
// Records produced by tuple-enumeration calls are kept in an in-process
// store; restarting the process discards them. Use the store package
// directly (NDJSON file or Postgres) for durable persistence.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shwdsun/secure-multipath-transmission/api/httpserver"
	"github.com/shwdsun/secure-multipath-transmission/api/smtapi"
	"github.com/shwdsun/secure-multipath-transmission/store"
)

func main() {
	var (
		addr         = flag.String("addr", ":8090", "HTTP listen address")
		metricsPath  = flag.String("metrics-path", "/metrics", "Prometheus metrics path (empty disables)")
		enablePprof  = flag.Bool("pprof", false, "enable pprof debugging endpoints")
		drainTimeout = flag.Duration("drain-timeout", 5*time.Second, "time to wait after drain before shutdown")
		shutdownWait = flag.Duration("shutdown-timeout", 10*time.Second, "max time to wait for in-flight requests on shutdown")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	handler := smtapi.NewHandler(log)
	handler.Store = store.NewInMemoryStore()

	cfg := &httpserver.Config{
		ListenAddr:               *addr,
		MetricsPath:              *metricsPath,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            *drainTimeout,
		GracefulShutdownDuration: *shutdownWait,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}

	srv := httpserver.New(cfg, handler)
	srv.RunInBackground()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down smtapi")
	srv.Shutdown()
}
