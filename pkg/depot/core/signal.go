package core

import (
	"io"
	"os"
	"os/signal"
	"syscall"
)

// SignalWorker blocks on SIGHUP and, on delivery, produces an inventory
// snapshot under the depot lock. SIGPIPE is masked process-wide for the
// same reason the C original masks it: so a write to an already-closed
// peer surfaces as an ordinary error return instead of terminating the
// process. Running this on its own goroutine, rather than inside an
// asynchronous OS signal handler, keeps the snapshot logic free to take
// the depot lock and do normal, non-reentrant work.
type SignalWorker struct {
	state *DepotState
	out   io.Writer
	sigs  chan os.Signal
}

// NewSignalWorker registers interest in SIGHUP and ignores SIGPIPE.
func NewSignalWorker(state *DepotState, out io.Writer) *SignalWorker {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	signal.Ignore(syscall.SIGPIPE)
	return &SignalWorker{state: state, out: out, sigs: sigs}
}

// Run blocks producing a snapshot on every delivered SIGHUP, until Stop
// is called.
func (w *SignalWorker) Run() {
	for range w.sigs {
		w.state.Snapshot(w.out)
	}
}

// Stop unregisters interest in SIGHUP and unblocks Run.
func (w *SignalWorker) Stop() {
	signal.Stop(w.sigs)
	close(w.sigs)
}
