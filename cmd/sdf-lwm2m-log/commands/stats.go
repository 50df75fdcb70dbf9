package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByStage     map[log.Stage]int
	EventsByCategory  map[log.Category]int
	DiagnosticsByKind map[diag.Kind]int
	Warnings          int
	Errors            int // error diagnostics plus stage failures
	Runs              map[string]*RunSummary
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// RunSummary holds statistics for one converter invocation.
type RunSummary struct {
	Direction   log.Direction
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Objects     int // reported by the last finished stage
	Diagnostics int
	Failed      bool
}

// collectStats reads every event of the log file.
func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByStage:     make(map[log.Stage]int),
		EventsByCategory:  make(map[log.Category]int),
		DiagnosticsByKind: make(map[diag.Kind]int),
		Runs:              make(map[string]*RunSummary),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByStage[event.Stage]++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		run, ok := stats.Runs[event.RunID]
		if !ok {
			run = &RunSummary{
				Direction: event.Direction,
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Runs[event.RunID] = run
		}
		run.Events++
		if event.Timestamp.After(run.LastSeen) {
			run.LastSeen = event.Timestamp
		}

		switch {
		case event.StageChange != nil:
			if event.StageChange.Status == log.StatusFinished && event.StageChange.Objects > 0 {
				run.Objects = event.StageChange.Objects
			}
		case event.Diagnostic != nil:
			run.Diagnostics++
			stats.DiagnosticsByKind[event.Diagnostic.Kind]++
			if event.Diagnostic.Severity == diag.SeverityError {
				stats.Errors++
			} else {
				stats.Warnings++
			}
		case event.Error != nil:
			run.Failed = true
			stats.Errors++
		}
	}
	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== SDF/LwM2M Translation Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Stage:")
	for st := log.StageParse; st <= log.StageWrite; st++ {
		if count := stats.EventsByStage[st]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", st.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for c := log.CategoryStage; c <= log.CategoryError; c++ {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.DiagnosticsByKind) > 0 {
		fmt.Fprintln(w, "Diagnostics by Kind:")
		for k := diag.KindStructuralParse; k <= diag.KindFidelity; k++ {
			if count := stats.DiagnosticsByKind[k]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", k.String()+":", count)
			}
		}
		fmt.Fprintf(w, "  (%d warnings)\n", stats.Warnings)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	if len(stats.Runs) > 0 {
		type runInfo struct {
			id    string
			stats *RunSummary
		}
		runs := make([]runInfo, 0, len(stats.Runs))
		for id, rs := range stats.Runs {
			runs = append(runs, runInfo{id, rs})
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].stats.FirstSeen.Before(runs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, r := range runs {
			duration := r.stats.LastSeen.Sub(r.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s, %d events, %d objects, %d diagnostics, duration %s",
				shortenRunID(r.id), r.stats.Direction, r.stats.Events, r.stats.Objects, r.stats.Diagnostics, duration)
			if r.stats.Failed {
				fmt.Fprint(w, " FAILED")
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
