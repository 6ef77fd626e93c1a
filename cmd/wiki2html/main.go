package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommand names. A first argument that is not one of
// them is treated as the input of an implicit render.
var commands = []string{"render", "detect", "dump", "styles", "completion", "version", "help"}

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and maps its error to an exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		cmd, rest = "render", args[1:]
	}

	warnUnknownEnvVars(env)

	var err error
	switch cmd {
	case "render":
		var flags *renderFlags
		var positional []string
		if flags, positional, err = parseRenderFlags(rest, env.Stderr); err == nil {
			err = runRender(ctx, positional, flags, env)
		}
	case "detect":
		var flags *detectFlags
		var positional []string
		if flags, positional, err = parseDetectFlags(rest, env.Stderr); err == nil {
			err = runDetect(ctx, positional, flags, env)
		}
	case "dump":
		var flags *dumpFlags
		var positional []string
		if flags, positional, err = parseDumpFlags(rest, env.Stderr); err == nil {
			err = runDump(ctx, positional, flags, env)
		}
	case "styles":
		err = runStyles(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-wiki2html %s\n", Version)
	case "help":
		runHelp(rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, errorMessage(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// notifyContext returns a context that is canceled when a shutdown signal
// is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// isCommand reports whether name is a subcommand. Matching is case sensitive.
func isCommand(name string) bool {
	for _, c := range commands {
		if name == c {
			return true
		}
	}
	return false
}

// wantsVerbose scans raw arguments for -v or --verbose before flag parsing.
func wantsVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
