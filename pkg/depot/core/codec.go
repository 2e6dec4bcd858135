package core

import (
	"strconv"
	"strings"

	"github.com/jabolina/depot/pkg/depot/types"
)

// parseMessage parses a single line of the depot wire protocol (already
// stripped of its trailing line terminator). It returns ok == false for
// any malformed line; the caller is expected to silently drop the
// message rather than propagate an error to the peer, per the protocol's
// robustness posture.
//
// Verbs are recognised by a leading-prefix match on the bare verb word,
// checked in priority order: Connect, IM, Deliver, Withdraw, Defer,
// Execute, Transfer. The match does not require a colon to immediately
// follow the verb word; each field parser then splits on ':' and
// discards whatever text occupies the first field without checking its
// exact value, so a line like "Connectx:80" still routes to and parses
// as Connect.
func parseMessage(line string) (types.Message, bool) {
	switch {
	case strings.HasPrefix(line, "Connect"):
		return parseConnect(line)
	case strings.HasPrefix(line, "IM"):
		return parseIM(line)
	case strings.HasPrefix(line, "Deliver"):
		return parseDeliverWithdraw(line, types.VerbDeliver)
	case strings.HasPrefix(line, "Withdraw"):
		return parseDeliverWithdraw(line, types.VerbWithdraw)
	case strings.HasPrefix(line, "Defer"):
		return parseDefer(line)
	case strings.HasPrefix(line, "Execute"):
		return parseExecute(line)
	case strings.HasPrefix(line, "Transfer"):
		return parseTransfer(line)
	default:
		return types.Message{}, false
	}
}

// exactFields splits line on ':' and requires exactly n non-empty fields.
func exactFields(line string, n int) ([]string, bool) {
	parts := strings.Split(line, ":")
	if len(parts) != n {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

// isToken reports whether s is usable as a name/good/destination field:
// non-empty and free of space, newline, carriage-return and colon.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \n\r:")
}

// isPort reports whether s is a valid decimal port string: non-empty and
// entirely digits.
func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseIM(line string) (types.Message, bool) {
	parts, ok := exactFields(line, 3)
	if !ok || !isPort(parts[1]) || !isToken(parts[2]) {
		return types.Message{}, false
	}
	return types.Message{Verb: types.VerbIM, Port: parts[1], Name: parts[2]}, true
}

func parseConnect(line string) (types.Message, bool) {
	parts, ok := exactFields(line, 2)
	if !ok || !isPort(parts[1]) {
		return types.Message{}, false
	}
	return types.Message{Verb: types.VerbConnect, Port: parts[1]}, true
}

func parseDeliverWithdraw(line string, verb types.Verb) (types.Message, bool) {
	parts, ok := exactFields(line, 3)
	if !ok || !isToken(parts[2]) {
		return types.Message{}, false
	}
	quantity, ok := parsePositiveInt(parts[1])
	if !ok {
		return types.Message{}, false
	}
	return types.Message{Verb: verb, Quantity: quantity, Good: parts[2]}, true
}

func parseTransfer(line string) (types.Message, bool) {
	parts, ok := exactFields(line, 4)
	if !ok || !isToken(parts[2]) || !isToken(parts[3]) {
		return types.Message{}, false
	}
	quantity, err := strconv.Atoi(parts[1])
	if err != nil {
		return types.Message{}, false
	}
	return types.Message{Verb: types.VerbTransfer, Quantity: quantity, Good: parts[2], Dest: parts[3]}, true
}

func parseDefer(line string) (types.Message, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return types.Message{}, false
	}
	key, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return types.Message{}, false
	}
	return types.Message{Verb: types.VerbDefer, Key: uint32(key), Inner: parts[2]}, true
}

func parseExecute(line string) (types.Message, bool) {
	parts, ok := exactFields(line, 2)
	if !ok {
		return types.Message{}, false
	}
	key, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return types.Message{}, false
	}
	return types.Message{Verb: types.VerbExecute, Key: uint32(key)}, true
}

// parsePositiveInt parses a strictly positive decimal integer with no
// trailing characters, as required for Deliver and Withdraw quantities.
func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// serializeIM renders an IM handshake line.
func serializeIM(port, name string) string {
	return "IM:" + port + ":" + name + "\n"
}

// serializeDeliver renders the Deliver line a Transfer forwards to the
// destination depot.
func serializeDeliver(quantity int, good string) string {
	return "Deliver:" + strconv.Itoa(quantity) + ":" + good + "\n"
}
