package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sdf-lwm2m/converter-go/pkg/log"
)

// RunExport exports the log file in format to output, or to stdout when
// output is empty.
func RunExport(path, format, output string, stdout io.Writer) error {
	var export func(*log.Reader, io.Writer) error
	switch format {
	case "jsonl":
		export = exportJSONL
	case "csv":
		export = exportCSV
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return export(reader, w)
}

// jsonEvent is the JSONL shape of an event: enums by name.
type jsonEvent struct {
	Timestamp   string              `json:"timestamp"`
	RunID       string              `json:"runId"`
	Direction   string              `json:"direction"`
	Stage       string              `json:"stage"`
	Category    string              `json:"category"`
	Source      string              `json:"source,omitempty"`
	StageChange *jsonStage          `json:"stageChange,omitempty"`
	Diagnostic  *jsonDiagnostic     `json:"diagnostic,omitempty"`
	Error       *log.ErrorEventData `json:"error,omitempty"`
}

type jsonStage struct {
	Status      string `json:"status"`
	Objects     int    `json:"objects,omitempty"`
	Diagnostics int    `json:"diagnostics,omitempty"`
	DurationNS  *int64 `json:"durationNs,omitempty"`
}

type jsonDiagnostic struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

func toJSON(e log.Event) jsonEvent {
	out := jsonEvent{
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		RunID:     e.RunID,
		Direction: e.Direction.String(),
		Stage:     e.Stage.String(),
		Category:  e.Category.String(),
		Source:    e.Source,
		Error:     e.Error,
	}
	if s := e.StageChange; s != nil {
		out.StageChange = &jsonStage{Status: s.Status.String(), Objects: s.Objects, Diagnostics: s.Diagnostics}
		if s.Duration != nil {
			ns := s.Duration.Nanoseconds()
			out.StageChange.DurationNS = &ns
		}
	}
	if d := e.Diagnostic; d != nil {
		out.Diagnostic = &jsonDiagnostic{Kind: d.Kind.String(), Severity: d.Severity.String(), Path: d.Path, Message: d.Message}
	}
	return out
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSON(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "run_id", "direction", "stage", "category", "source", "kind", "severity", "path", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var kind, severity, path, message string
		switch {
		case event.StageChange != nil:
			message = event.StageChange.Status.String()
		case event.Diagnostic != nil:
			d := event.Diagnostic
			kind, severity, path, message = d.Kind.String(), d.Severity.String(), d.Path, d.Message
		case event.Error != nil:
			message = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.RunID,
			event.Direction.String(),
			event.Stage.String(),
			event.Category.String(),
			event.Source,
			kind,
			severity,
			path,
			message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
