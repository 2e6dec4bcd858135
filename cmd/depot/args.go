package main

import "strings"

// Exit codes mandated by the depot's invocation contract.
const (
	exitOK              = 0
	exitBadArgCount     = 1
	exitInvalidName     = 2
	exitInvalidQuantity = 3
)

const usageMessage = "Usage: 2310depot name {goods qty}\n"
const invalidNameMessage = "Invalid name(s)\n"
const invalidQuantityMessage = "Invalid quantity\n"

// validateArgs checks the positional arguments following the program
// name against the invocation contract and, on success, splits them
// into the depot's own name and its seeded goods.
//
// The contract counts the program name itself (as C's argc does): total
// argument count must be even, i.e. the name-plus-pairs list handed to
// this function (which excludes the program name) must have odd length
// — one name plus zero or more complete good/qty pairs.
//
// Pairs are validated one index at a time, name then quantity, exiting
// on whichever fails first in index order: for
// {"warehouse-a", "apple", "-5", "bad name", "3"}, the first pair's bad
// quantity is reported before the second pair's name is ever looked at,
// matching the original implementation's interleaved argv walk.
func validateArgs(args []string) (name string, goods map[string]int, exitCode int) {
	if len(args) == 0 || len(args)%2 == 0 {
		return "", nil, exitBadArgCount
	}

	name = args[0]
	if !isValidName(name) {
		return "", nil, exitInvalidName
	}

	pairs := args[1:]
	goods = make(map[string]int)
	for i := 0; i < len(pairs); i += 2 {
		good := pairs[i]
		if !isValidName(good) {
			return "", nil, exitInvalidName
		}
		quantity, ok := parseNonNegativeQuantity(pairs[i+1])
		if !ok {
			return "", nil, exitInvalidQuantity
		}
		goods[good] += quantity
	}

	return name, goods, exitOK
}

// isValidName reports whether s is usable as a depot or good name:
// non-empty and free of space, newline, carriage-return and colon.
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \n\r:")
}

// parseNonNegativeQuantity parses a non-negative decimal integer with no
// trailing characters: every rune must be an ASCII digit, which also
// rejects a leading sign of either kind.
func parseNonNegativeQuantity(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
