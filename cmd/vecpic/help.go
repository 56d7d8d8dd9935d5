package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpic [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP conversion service (default)")
	fmt.Fprintln(w, "  convert    Convert PNG/JPEG files to SVG")
	fmt.Fprintln(w, "  doctor     Check vtracer and the work directory")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'vecpic help <command>' for details on a specific command.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpic serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /vecpic (multipart image upload, returns SVG) and GET / (health).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:5000)")
	fmt.Fprintln(w, "      --max-upload <size>   Maximum upload size, e.g. 32MiB (0 = unlimited)")
	fmt.Fprintln(w)
	printConversionFlags(w)
	printLogFlags(w)
	printCommonFlags(w)
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpic convert <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert PNG/JPEG images to SVG. Directories are walked recursively;")
	fmt.Fprintln(w, "only files ending in .png, .jpg or .jpeg (lowercase) are converted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory, or .svg file for a single input")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --colormode <s>       Color mode: color, binary")
	fmt.Fprintln(w)
	printConversionFlags(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpic doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that vtracer is installed and the work directory is writable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpic config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration (defaults, file, VECPIC_* env, flags) as YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address")
	fmt.Fprintln(w)
	printConversionFlags(w)
	printLogFlags(w)
	printCommonFlags(w)
}

func printConversionFlags(w io.Writer) {
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-image tracing timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --tracer <path>       vtracer binary name or path")
	fmt.Fprintln(w, "      --work-dir <dir>      Parent directory for job files")
	fmt.Fprintln(w, "      --keep-files          Keep job directories for debugging")
	fmt.Fprintln(w)
}

func printLogFlags(w io.Writer) {
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      json, console")
	fmt.Fprintln(w)
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: vecpic version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: vecpic help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
