// Package commands implements the sdf-lwm2m-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	RunID     string
	Direction *log.Direction
	Stage     *log.Stage
	Category  *log.Category
	Kind      *diag.Kind
	Severity  *diag.Severity
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		RunID:     f.RunID,
		Direction: f.Direction,
		Stage:     f.Stage,
		Category:  f.Category,
		Kind:      f.Kind,
		Severity:  f.Severity,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [run:id] DIRECTION STAGE label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var label string
	switch {
	case event.StageChange != nil:
		label = event.StageChange.Status.String()
	case event.Diagnostic != nil:
		label = event.Diagnostic.Severity.String() + " " + event.Diagnostic.Kind.String()
	case event.Error != nil:
		label = "Error"
	default:
		label = "Unknown"
	}

	fmt.Fprintf(w, "%s [run:%s] %s %s %s\n", ts, shortenRunID(event.RunID),
		event.Direction.String(), event.Stage.String(), label)
	if event.Source != "" {
		fmt.Fprintf(w, "  Source: %s\n", event.Source)
	}

	switch {
	case event.StageChange != nil:
		formatStageDetails(w, event.StageChange)
	case event.Diagnostic != nil:
		formatDiagnosticDetails(w, event.Diagnostic)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatStageDetails(w io.Writer, se *log.StageEvent) {
	if se.Status != log.StatusFinished {
		return
	}
	fmt.Fprintf(w, "  Objects: %d  Diagnostics: %d\n", se.Objects, se.Diagnostics)
	if se.Duration != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*se.Duration))
	}
}

func formatDiagnosticDetails(w io.Writer, d *log.DiagnosticEvent) {
	if d.Path != "" {
		fmt.Fprintf(w, "  Path: %s\n", d.Path)
	}
	fmt.Fprintf(w, "  Message: %s\n", d.Message)
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseDirectionFlag parses a direction from a command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "to-sdf", "lwm2m_to_sdf":
		return log.DirectionToSDF, nil
	case "to-lwm2m", "sdf_to_lwm2m":
		return log.DirectionToLwM2M, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be to-sdf or to-lwm2m)", s)
	}
}

// ParseStageFlag parses a stage name (case-insensitive).
func ParseStageFlag(s string) (log.Stage, error) {
	for st := log.StageParse; st <= log.StageWrite; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("invalid stage: %s (must be parse, translate, roundtrip, validate or write)", s)
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	for c := log.CategoryStage; c <= log.CategoryError; c++ {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid category: %s (must be stage, diagnostic or error)", s)
}

// ParseSeverityFlag parses "warning" or "error" (case-insensitive).
func ParseSeverityFlag(s string) (diag.Severity, error) {
	switch strings.ToLower(s) {
	case "warning", "warn":
		return diag.SeverityWarning, nil
	case "error":
		return diag.SeverityError, nil
	default:
		return 0, fmt.Errorf("invalid severity: %s (must be warning or error)", s)
	}
}

// RunView writes the matching events of the log file to output.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}

// ParseKindFlag parses a diagnostic kind name (case-insensitive).
func ParseKindFlag(s string) (diag.Kind, error) {
	return diag.ParseKind(s)
}
