package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	// A missing .env file is the common case.
	_ = godotenv.Load()

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a subcommand and returns the process exit code.
// Without a command (or when the first argument is a flag) it serves.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := "serve", args[1:]
	if len(rest) > 0 && !isFlag(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())

	switch cmd {
	case "serve":
		return exitWith(env, runServe(ctx, rest, env))
	case "convert":
		return exitWith(env, runConvert(ctx, rest, env))
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "config":
		return exitWith(env, runConfigCmd(rest, env))
	case "version":
		fmt.Fprintf(env.Stdout, "go-vecpic %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// exitWith reports err on stderr with an actionable hint and converts it
// to an exit code. Help requests are not errors.
func exitWith(env *Environment, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// isFlag reports whether s is a flag other than a help request.
func isFlag(s string) bool {
	return len(s) > 1 && s[0] == '-' && s != "-h" && s != "--help"
}
