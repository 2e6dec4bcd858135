// Command 2310depot runs a single peer-to-peer depot node: it prints its
// assigned listening port, then serves the depot wire protocol until
// terminated.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/jabolina/depot/pkg/depot"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// metricsAddrFlag is the only flag this command recognises; every other
// token, including ones starting with '-' (a depot or good name is only
// barred from space, newline, carriage-return and colon, and a quantity
// like "-1" must reach validateArgs intact to be rejected with the right
// exit code), is positional.
const metricsAddrFlag = "--metrics-addr"

// splitArgv pulls metricsAddrFlag (and its value, given as a separate
// token or as "--metrics-addr=value") out of argv, leaving every other
// token as positional input. kingpin's own lexer would otherwise treat
// any positional token starting with '-' as an unrecognised flag before
// it ever reaches validateArgs.
func splitArgv(argv []string) (flags, positional []string) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == metricsAddrFlag:
			flags = append(flags, arg)
			if i+1 < len(argv) {
				i++
				flags = append(flags, argv[i])
			}
		case strings.HasPrefix(arg, metricsAddrFlag+"="):
			flags = append(flags, arg)
		default:
			positional = append(positional, arg)
		}
	}
	return flags, positional
}

func run(argv []string) int {
	// kingpin's own usage/error text must never leak in place of the
	// exact stderr messages the invocation contract requires, and its
	// default error handling calls os.Exit directly; both are silenced
	// and disabled here, so kingpin only ever plays the role of
	// splitting flags from positional arguments.
	app := kingpin.New("2310depot", "A peer-to-peer depot node.")
	app.Terminate(nil)
	app.UsageWriter(io.Discard)
	app.ErrorWriter(io.Discard)

	metricsAddr := app.Flag("metrics-addr", "optional address to serve Prometheus metrics on").Default("").String()
	rest := app.Arg("args", "depot name followed by good/quantity pairs").Strings()

	// "--" stops kingpin from ever lexing the positional arguments as
	// flags, so a dash-prefixed name, good or quantity reaches
	// validateArgs untouched.
	flags, positional := splitArgv(argv)
	parseArgs := append(append([]string{}, flags...), append([]string{"--"}, positional...)...)
	if _, err := app.Parse(parseArgs); err != nil {
		fmt.Fprint(os.Stderr, usageMessage)
		return exitBadArgCount
	}

	name, goods, exitCode := validateArgs(*rest)
	if exitCode != exitOK {
		switch exitCode {
		case exitInvalidName:
			fmt.Fprint(os.Stderr, invalidNameMessage)
		case exitInvalidQuantity:
			fmt.Fprint(os.Stderr, invalidQuantityMessage)
		default:
			fmt.Fprint(os.Stderr, usageMessage)
		}
		return exitCode
	}

	d, err := depot.New(name, goods, *metricsAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	if err := d.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return exitOK
}
