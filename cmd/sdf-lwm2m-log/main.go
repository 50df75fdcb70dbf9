// Command sdf-lwm2m-log views and analyzes translation event logs.
//
// Event logs are written by sdf-lwm2m-converter when run with the
// -event-log flag.
//
// Usage:
//
//	sdf-lwm2m-log <command> [flags] <file.tlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	sdf-lwm2m-log view run.tlog
//
//	# View only error diagnostics
//	sdf-lwm2m-log view -category diagnostic -severity error run.tlog
//
//	# Export to CSV
//	sdf-lwm2m-log export -format csv -o run.csv run.tlog
//
//	# Keep one run of a shared log
//	sdf-lwm2m-log filter -run-id 3f2c9a1e-... -o one.tlog shared.tlog
//
//	# Show statistics
//	sdf-lwm2m-log stats run.tlog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sdf-lwm2m/converter-go/cmd/sdf-lwm2m-log/commands"
)

const usage = `sdf-lwm2m-log - SDF/LwM2M Translation Log Analyzer

Usage:
  sdf-lwm2m-log <command> [flags] <file.tlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "sdf-lwm2m-log <command> -help" for more information about a command.
`

func main() {
	os.Exit(runArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runArgs(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "view":
		err = runView(rest, stdout, stderr)
	case "export":
		err = runExport(rest, stdout, stderr)
	case "filter":
		err = runFilter(rest, stdout, stderr)
	case "stats":
		err = runStats(rest, stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 1
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errLogPath = errors.New("log file path required")

func newFlagSet(name, synopsis string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "sdf-lwm2m-log %s - %s\n\nUsage:\n  sdf-lwm2m-log %s [flags] <file.tlog>\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}
	return fs
}

// parseWithPath parses flags and returns the log file argument.
func parseWithPath(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return "", errLogPath
	}
	return fs.Arg(0), nil
}

func runView(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("view", "View log file in human-readable format", stderr)
	runID := fs.String("run-id", "", "Filter by run ID")
	direction := fs.String("direction", "", "Filter by direction (to-sdf, to-lwm2m)")
	stage := fs.String("stage", "", "Filter by stage (parse, translate, roundtrip, validate, write)")
	category := fs.String("category", "", "Filter by category (stage, diagnostic, error)")
	kind := fs.String("kind", "", "Filter diagnostics by kind (structural, vocabulary, numeric, mapping, io, validation, fidelity)")
	severity := fs.String("severity", "", "Filter diagnostics by severity (warning, error)")

	path, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}

	filter := commands.ViewFilter{RunID: *runID}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if *stage != "" {
		s, err := commands.ParseStageFlag(*stage)
		if err != nil {
			return err
		}
		filter.Stage = &s
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}
	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}
	if *severity != "" {
		s, err := commands.ParseSeverityFlag(*severity)
		if err != nil {
			return err
		}
		filter.Severity = &s
	}

	return commands.RunView(path, filter, stdout)
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", "Export log file to JSON or CSV format", stderr)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output, stdout)
}

func runFilter(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("filter", "Filter log file and write to new file", stderr)
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.RunID, "run-id", "", "Filter by run ID")
	fs.StringVar(&opts.Source, "source", "", "Filter by input or output file")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (to-sdf, to-lwm2m)")
	fs.StringVar(&opts.Stage, "stage", "", "Filter by stage")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (stage, diagnostic, error)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter diagnostics by kind")
	fs.StringVar(&opts.Severity, "severity", "", "Filter diagnostics by severity (warning, error)")

	path, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		fs.Usage()
		return errors.New("output file (-o) required")
	}
	return commands.RunFilter(path, opts, stdout)
}

func runStats(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("stats", "Show statistics about the log file", stderr)
	path, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	return commands.RunStats(path, stdout)
}
