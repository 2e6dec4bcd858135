// Package depot wires the core components — the depot state, its
// acceptor, and the signal worker — into a single runnable node, and
// optionally exposes its operational counters over HTTP.
package depot

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jabolina/depot/pkg/depot/core"
	"github.com/jabolina/depot/pkg/depot/definition"
)

// Depot is a single running node: its state, the acceptor that serves
// inbound peers, the signal worker producing diagnostic dumps, and
// (optionally) an HTTP server exposing Prometheus metrics.
type Depot struct {
	State        *core.DepotState
	Acceptor     *core.Acceptor
	SignalWorker *core.SignalWorker

	invoker    core.Invoker
	httpServer *http.Server
}

// New builds a depot named name, seeded with goods, and binds its
// listening socket. metricsAddr, if non-empty, starts an additional HTTP
// server serving /metrics; an empty value leaves the depot with no HTTP
// surface at all.
func New(name string, goods map[string]int, metricsAddr string) (*Depot, error) {
	logger := definition.NewDefaultLogger()
	registry := prometheus.NewRegistry()
	metrics := core.NewMetrics(registry)
	invoker := core.NewInvoker()

	state := core.NewDepotState(name, logger, metrics, invoker)
	state.Seed(goods)

	acceptor, err := core.NewAcceptor(state)
	if err != nil {
		return nil, err
	}

	d := &Depot{
		State:        state,
		Acceptor:     acceptor,
		SignalWorker: core.NewSignalWorker(state, os.Stdout),
		invoker:      invoker,
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		d.httpServer = &http.Server{Addr: metricsAddr, Handler: mux}
	}

	return d, nil
}

// Run announces the listening port on standard output, starts the
// signal worker and optional metrics server, then blocks running the
// acceptor loop until its listener is closed.
func (d *Depot) Run() error {
	if err := d.Acceptor.Announce(os.Stdout); err != nil {
		return err
	}

	d.invoker.Spawn(d.SignalWorker.Run)

	if d.httpServer != nil {
		d.invoker.Spawn(func() {
			_ = d.httpServer.ListenAndServe()
		})
	}

	d.Acceptor.Run()
	return nil
}

// Shutdown stops the acceptor and signal worker, and the metrics server
// if one is running. It does not touch already-established peer
// sessions: neighbours are never torn down.
// This exists for tests that need a clean process exit, not for any
// wire operation.
func (d *Depot) Shutdown() {
	_ = d.Acceptor.Close()
	d.SignalWorker.Stop()
	if d.httpServer != nil {
		_ = d.httpServer.Close()
	}
}
