package core

import (
	"fmt"
	"io"
	"net"
)

// Acceptor listens on an OS-assigned loopback port and spawns an inbound
// Session for every connection it accepts.
type Acceptor struct {
	listener net.Listener
	state    *DepotState
}

// NewAcceptor binds a TCP socket to 127.0.0.1 on an ephemeral port and
// records the chosen port on state.
func NewAcceptor(state *DepotState) (*Acceptor, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	port := listener.Addr().(*net.TCPAddr).Port
	state.Port = fmt.Sprintf("%d", port)
	return &Acceptor{listener: listener, state: state}, nil
}

// Announce writes the chosen listening port, in decimal, as the first
// line to out. os.Stdout writes directly through to the underlying file
// descriptor, so there is no internal buffer to flush once Fprintln
// returns.
func (a *Acceptor) Announce(out io.Writer) error {
	_, err := fmt.Fprintln(out, a.state.Port)
	return err
}

// Run blocks accepting connections and spawning an inbound Session per
// connection through the depot's Invoker, until the listener is closed.
func (a *Acceptor) Run() {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			return
		}
		a.state.invoker.Spawn(func() {
			a.handleInbound(conn)
		})
	}
}

func (a *Acceptor) handleInbound(conn net.Conn) {
	session := newSession(a.state, conn, true)
	if _, err := session.handshakeInbound(); err != nil {
		a.state.logger.Warnf("inbound handshake from %s failed: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}
	session.run()
}

// Close stops accepting new connections. It does not touch any
// already-established session.
func (a *Acceptor) Close() error {
	return a.listener.Close()
}
