package core

import (
	"fmt"
	"net"

	"github.com/jabolina/depot/pkg/depot/types"
)

// Session owns one peer TCP connection: it performs the handshake, then
// runs the dispatch loop until the peer closes or a read fails. A
// session that fails its handshake is never registered as a neighbour
// and both halves of its socket are closed before it exits; a session
// that completes its handshake is never torn down on a later read
// error: the neighbour table entry outlives the session's read loop,
// and a subsequent write to it fails; the error is logged and otherwise
// ignored.
type Session struct {
	conn    net.Conn
	reader  *LineReader
	state   *DepotState
	inbound bool
}

func newSession(state *DepotState, conn net.Conn, inbound bool) *Session {
	return &Session{
		conn:    conn,
		reader:  NewLineReader(conn),
		state:   state,
		inbound: inbound,
	}
}

// handshakeInbound implements the inbound path: read the peer's IM,
// register it, then reply with our own IM. The registration happens
// before our IM is sent, an ordering that must be preserved because
// the other side's outbound handshake (triggered by a Connect message)
// is waiting to read it promptly.
func (s *Session) handshakeInbound() (*Neighbour, error) {
	line, err := s.reader.ReadLine()
	if err != nil {
		return nil, err
	}
	message, ok := parseMessage(line)
	if !ok || message.Verb != types.VerbIM {
		return nil, fmt.Errorf("expected IM handshake, got %q", line)
	}

	neighbour := &Neighbour{RemoteName: message.Name, RemotePort: message.Port, Conn: s.conn}
	s.state.RegisterNeighbour(neighbour)

	if _, err := s.conn.Write([]byte(serializeIM(s.state.Port, s.state.Name))); err != nil {
		return nil, err
	}
	return neighbour, nil
}

// handshakeOutbound implements the outbound path used when a Connect
// message asks this depot to dial a peer: send our IM first, then read
// the peer's. The caller is responsible for registering the returned
// neighbour; it is not registered here because this path runs with the
// dispatch lock already held by the triggering Connect handler, and
// RegisterNeighbour would deadlock trying to take it again.
func (s *Session) handshakeOutbound() (*Neighbour, error) {
	if _, err := s.conn.Write([]byte(serializeIM(s.state.Port, s.state.Name))); err != nil {
		return nil, err
	}

	line, err := s.reader.ReadLine()
	if err != nil {
		return nil, err
	}
	message, ok := parseMessage(line)
	if !ok || message.Verb != types.VerbIM {
		return nil, fmt.Errorf("expected IM handshake, got %q", line)
	}

	return &Neighbour{RemoteName: message.Name, RemotePort: message.Port, Conn: s.conn}, nil
}

// run is the dispatch loop: read one line, classify it, and if it
// parses, execute its handler while holding the depot lock. A parse
// failure drops the message silently and the loop continues. The loop
// performs no bookkeeping when the peer closes or a read fails — it
// just returns, leaving the Neighbour Table entry (and, by extension,
// any future fire-and-forget write to this now-dead connection) alone.
func (s *Session) run() {
	for {
		line, err := s.reader.ReadLine()
		if err != nil {
			return
		}

		message, ok := parseMessage(line)
		if !ok {
			s.state.logger.Debugf("dropping malformed message %q from %s", line, s.conn.RemoteAddr())
			continue
		}

		s.state.mu.Lock()
		s.state.dispatch(message)
		s.state.mu.Unlock()
	}
}
