package core

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jabolina/depot/pkg/depot/definition"
)

// newTestRegistry gives each test its own Prometheus registry, so
// constructing several DepotState instances in one test binary never
// collides on duplicate collector registration.
func newTestRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// waitGroupInvoker spawns through a sync.WaitGroup, so a test can block
// on Stop until every goroutine it started — acceptor, sessions, signal
// worker — has actually returned before asserting on final state.
type waitGroupInvoker struct {
	group sync.WaitGroup
}

func newWaitGroupInvoker() *waitGroupInvoker {
	return &waitGroupInvoker{}
}

func (w *waitGroupInvoker) Spawn(f func()) {
	w.group.Add(1)
	go func() {
		defer w.group.Done()
		f()
	}()
}

func (w *waitGroupInvoker) Stop() {
	w.group.Wait()
}

// newTestState builds a DepotState wired with the waitGroupInvoker and a
// default logger with debug output enabled, for diagnosing test
// failures.
func newTestState(name string) (*DepotState, *waitGroupInvoker) {
	logger := definition.NewDefaultLogger()
	logger.ToggleDebug(true)
	invoker := newWaitGroupInvoker()
	metrics := NewMetrics(newTestRegistry())
	return NewDepotState(name, logger, metrics, invoker), invoker
}
