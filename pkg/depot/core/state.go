package core

import (
	"net"
	"sync"

	"github.com/jabolina/depot/pkg/depot/types"
)

// Neighbour is a registered peer: a depot this node has completed a
// handshake with and holds an open session for.
type Neighbour struct {
	RemoteName string
	RemotePort string
	Conn       net.Conn
}

// deferredGroup is an ordered, key-addressed batch of raw message
// strings awaiting an Execute.
type deferredGroup struct {
	tasks []string
}

// DepotState is the root aggregate: this node's own identity plus the
// inventory, neighbour and deferred-task tables. Every read and write,
// including neighbour registration, deferred append/execute and
// snapshot production, happens while holding mu — a single process-wide
// lock, matching this repo's design of serializing everything (the
// other option, splitting per-table locks, is left for a future
// refinement once the coarse lock is shown to be contended).
type DepotState struct {
	mu sync.Mutex

	Name string
	Port string

	inventory  map[string]int
	neighbours map[string]*Neighbour // keyed by RemotePort
	deferred   map[uint32]*deferredGroup

	logger  types.Logger
	metrics *Metrics
	invoker Invoker
}

// NewDepotState builds an empty depot identified by name. Port is filled
// in once the acceptor has bound its listening socket.
func NewDepotState(name string, logger types.Logger, metrics *Metrics, invoker Invoker) *DepotState {
	return &DepotState{
		Name:       name,
		inventory:  make(map[string]int),
		neighbours: make(map[string]*Neighbour),
		deferred:   make(map[uint32]*deferredGroup),
		logger:     logger,
		metrics:    metrics,
		invoker:    invoker,
	}
}

// Seed pre-loads the goods given on the command line. Must be called
// before the acceptor starts serving connections.
func (d *DepotState) Seed(goods map[string]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, quantity := range goods {
		d.inventory[name] += quantity
	}
}

// RegisterNeighbour records a newly handshaken peer. It locks
// internally, so callers must not already hold mu — this is the path
// used by an inbound handshake, which runs before any dispatch lock is
// held.
func (d *DepotState) RegisterNeighbour(n *Neighbour) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.neighbours[n.RemotePort] = n
	d.metrics.Neighbours.Set(float64(len(d.neighbours)))
}

// Goods returns the current inventory entries, including zero and
// negative quantities. Callers needing the diagnostic snapshot's
// zero-omitting, sorted view should use Snapshot instead.
func (d *DepotState) Goods() []types.Good {
	d.mu.Lock()
	defer d.mu.Unlock()
	goods := make([]types.Good, 0, len(d.inventory))
	for name, quantity := range d.inventory {
		goods = append(goods, types.Good{Name: name, Quantity: quantity})
	}
	return goods
}

// dispatch executes a single parsed message's handler. The caller must
// hold mu.
func (d *DepotState) dispatch(message types.Message) {
	switch message.Verb {
	case types.VerbDeliver:
		d.handleDeliver(message.Quantity, message.Good)
	case types.VerbWithdraw:
		d.handleWithdraw(message.Quantity, message.Good)
	case types.VerbTransfer:
		d.handleTransfer(message.Quantity, message.Good, message.Dest)
	case types.VerbDefer:
		d.handleDefer(message.Key, message.Inner)
	case types.VerbExecute:
		d.handleExecute(message.Key)
	case types.VerbConnect:
		d.handleConnect(message.Port)
	case types.VerbIM:
		// IM received mid-session is ignored.
	}
}

// applyDeliver/applyWithdraw mutate the inventory without touching
// metrics, so Transfer's internal withdraw doesn't get double-counted
// against the Withdraw verb's own counter.
func (d *DepotState) applyDeliver(quantity int, name string) {
	d.inventory[name] += quantity
}

func (d *DepotState) applyWithdraw(quantity int, name string) {
	d.inventory[name] -= quantity
}

func (d *DepotState) handleDeliver(quantity int, name string) {
	d.applyDeliver(quantity, name)
	d.metrics.Delivered.Inc()
}

func (d *DepotState) handleWithdraw(quantity int, name string) {
	d.applyWithdraw(quantity, name)
	d.metrics.Withdrawn.Inc()
}

// handleTransfer withdraws locally and forwards a Deliver to every
// neighbour advertising the destination name. A destination with no
// matching neighbour still withdraws locally: the protocol is
// fire-and-forget.
func (d *DepotState) handleTransfer(quantity int, name, dest string) {
	d.applyWithdraw(quantity, name)
	line := serializeDeliver(quantity, name)
	for _, n := range d.neighbours {
		if n.RemoteName != dest {
			continue
		}
		if _, err := n.Conn.Write([]byte(line)); err != nil {
			d.logger.Errorf("transfer: write to neighbour %s failed: %v", n.RemoteName, err)
		}
	}
	d.metrics.Transferred.Inc()
}

func (d *DepotState) handleDefer(key uint32, inner string) {
	g, ok := d.deferred[key]
	if !ok {
		g = &deferredGroup{}
		d.deferred[key] = g
	}
	g.tasks = append(g.tasks, inner)
}

// handleExecute replays a deferred group's tasks in insertion order,
// dispatching each as a Deliver, Withdraw or Transfer; any other verb
// inside a deferred entry is ignored. Execute on an unknown key is a
// no-op. After replay the group's task slice is truncated to empty, so
// the backing strings become unreachable and are reclaimed by the
// garbage collector, but the key entry itself stays present so a future
// Defer to the same key starts a fresh sequence.
func (d *DepotState) handleExecute(key uint32) {
	g, ok := d.deferred[key]
	if !ok {
		return
	}
	tasks := g.tasks
	g.tasks = nil
	for _, raw := range tasks {
		message, ok := parseMessage(raw)
		if !ok {
			continue
		}
		switch message.Verb {
		case types.VerbDeliver:
			d.handleDeliver(message.Quantity, message.Good)
		case types.VerbWithdraw:
			d.handleWithdraw(message.Quantity, message.Good)
		case types.VerbTransfer:
			d.handleTransfer(message.Quantity, message.Good, message.Dest)
		}
	}
	d.metrics.Executed.Inc()
}

// handleConnect is a no-op if a neighbour is already registered for
// port. Otherwise it dials the peer, performs the outbound handshake and
// registers the new neighbour synchronously (this runs with mu already
// held by the caller's dispatch, so the whole check-dial-handshake
// sequence is atomic with respect to a second Connect for the same
// port arriving immediately after — the price is that a slow or
// unresponsive peer stalls this depot's entire dispatch loop while
// connecting, the same coarse-lock trade-off Transfer's own forwarding
// writes already accept). Only once the neighbour is
// registered is a new Session spawned to run its ongoing dispatch loop.
func (d *DepotState) handleConnect(port string) {
	if _, exists := d.neighbours[port]; exists {
		return
	}

	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
	if err != nil {
		d.logger.Errorf("connect: dial port %s failed: %v", port, err)
		return
	}

	session := newSession(d, conn, false)
	neighbour, err := session.handshakeOutbound()
	if err != nil {
		d.logger.Warnf("connect: outbound handshake to port %s failed: %v", port, err)
		_ = conn.Close()
		return
	}

	d.neighbours[neighbour.RemotePort] = neighbour
	d.metrics.Neighbours.Set(float64(len(d.neighbours)))
	d.invoker.Spawn(session.run)
}
