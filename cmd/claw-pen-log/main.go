// Command claw-pen-log is a tool for viewing and analyzing claw-pen
// protocol log files.
//
// Log files are created by running claw-pen with the -protocol-log
// flag.
//
// Usage:
//
//	claw-pen-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON Lines
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	claw-pen-log view session.cbor
//
//	# View only inbound frames
//	claw-pen-log view -direction in -category frame session.cbor
//
//	# Export to JSONL
//	claw-pen-log export session.cbor > session.jsonl
//
//	# Keep one connection attempt only
//	claw-pen-log filter -conn-id 7f3c21aa-... -o attempt.cbor session.cbor
//
//	# Show statistics
//	claw-pen-log stats session.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openclaw-protocol/clawpen-go/cmd/claw-pen-log/commands"
	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

const usage = `claw-pen-log - OpenClaw protocol log analyzer

Usage:
  claw-pen-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON Lines
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "claw-pen-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = runView(args)
	case "export":
		err = runExport(args)
	case "filter":
		err = runFilter(args)
	case "stats":
		err = runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "claw-pen-log: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, state, error)")
	connID := fs.String("conn-id", "", "Filter by connection ID")
	_ = fs.Parse(args)

	path, err := logPath(fs)
	if err != nil {
		return err
	}

	filter := commands.ViewFilter{ConnectionID: *connID}
	if *direction != "" {
		d, err := parseDirection(*direction)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := parseCategory(*category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}

	return commands.RunView(path, filter, os.Stdout)
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	_ = fs.Parse(args)

	path, err := logPath(fs)
	if err != nil {
		return err
	}
	return commands.RunExport(path, os.Stdout)
}

func runFilter(args []string) error {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	connID := fs.String("conn-id", "", "Keep only this connection ID")
	category := fs.String("category", "", "Keep only this category (frame, state, error)")
	out := fs.String("o", "", "Output file (required)")
	_ = fs.Parse(args)

	path, err := logPath(fs)
	if err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-o is required")
	}

	filter := log.Filter{ConnectionID: *connID}
	if *category != "" {
		c, err := parseCategory(*category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}

	return commands.RunFilter(path, *out, filter)
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	path, err := logPath(fs)
	if err != nil {
		return err
	}
	return commands.RunStats(path, os.Stdout)
}

func logPath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one log file argument")
	}
	return fs.Arg(0), nil
}

func parseDirection(s string) (log.Direction, error) {
	switch s {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want in or out)", s)
	}
}

func parseCategory(s string) (log.Category, error) {
	switch s {
	case "frame":
		return log.CategoryFrame, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want frame, state or error)", s)
	}
}
