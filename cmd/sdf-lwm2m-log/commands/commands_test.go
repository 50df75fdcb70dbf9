package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
	"github.com/sdf-lwm2m/converter-go/pkg/log"
)

var base = time.Date(2026, 3, 4, 10, 15, 32, 123456000, time.UTC)

const (
	runA = "aaaaaaaa-1111-2222-3333-444444444444"
	runB = "bbbbbbbb-1111-2222-3333-444444444444"
)

func testEvents() []log.Event {
	took := 1500 * time.Microsecond
	return []log.Event{
		{
			Timestamp: base, RunID: runA, Direction: log.DirectionToSDF,
			Stage: log.StageParse, Category: log.CategoryStage, Source: "objects/",
			StageChange: &log.StageEvent{Status: log.StatusStarted},
		},
		{
			Timestamp: base.Add(time.Millisecond), RunID: runA, Direction: log.DirectionToSDF,
			Stage: log.StageParse, Category: log.CategoryDiagnostic, Source: "objects/",
			Diagnostic: &log.DiagnosticEvent{
				Kind: diag.KindVocabularyMismatch, Severity: diag.SeverityWarning,
				Path: "3303/5700", Message: `unknown Type "Floaty", using Undefined`,
			},
		},
		{
			Timestamp: base.Add(2 * time.Millisecond), RunID: runA, Direction: log.DirectionToSDF,
			Stage: log.StageParse, Category: log.CategoryStage, Source: "objects/",
			StageChange: &log.StageEvent{Status: log.StatusFinished, Objects: 2, Diagnostics: 1, Duration: &took},
		},
		{
			Timestamp: base.Add(time.Second), RunID: runB, Direction: log.DirectionToLwM2M,
			Stage: log.StageParse, Category: log.CategoryDiagnostic, Source: "m.json",
			Diagnostic: &log.DiagnosticEvent{
				Kind: diag.KindStructuralParse, Severity: diag.SeverityError,
				Path: "#/sdfObject/T", Message: "missing objectId",
			},
		},
		{
			Timestamp: base.Add(2 * time.Second), RunID: runB, Direction: log.DirectionToLwM2M,
			Stage: log.StageWrite, Category: log.CategoryError, Source: "out/x.xml",
			Error: &log.ErrorEventData{Message: "permission denied", Context: "out/x.xml"},
		},
	}
}

func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.tlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatStageEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, testEvents()[2])
	output := buf.String()

	for _, want := range []string{
		"2026-03-04T10:15:32.125456Z",
		"[run:aaaaaaaa]",
		"LWM2M_TO_SDF PARSE FINISHED",
		"Source: objects/",
		"Objects: 2  Diagnostics: 1",
		"Duration: 1.500ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatDiagnosticEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, testEvents()[3])
	output := buf.String()

	for _, want := range []string{"SDF_TO_LWM2M PARSE ERROR STRUCTURAL", "Path: #/sdfObject/T", "Message: missing objectId"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, testEvents()[4])
	output := buf.String()

	if !strings.Contains(output, "WRITE Error") {
		t.Errorf("expected error label, got:\n%s", output)
	}
	if !strings.Contains(output, "Context: out/x.xml") {
		t.Errorf("expected context, got:\n%s", output)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if d, err := ParseDirectionFlag("TO-LWM2M"); err != nil || d != log.DirectionToLwM2M {
		t.Errorf("ParseDirectionFlag = %v, %v", d, err)
	}
	if s, err := ParseStageFlag("roundtrip"); err != nil || s != log.StageRoundTrip {
		t.Errorf("ParseStageFlag = %v, %v", s, err)
	}
	if c, err := ParseCategoryFlag("Diagnostic"); err != nil || c != log.CategoryDiagnostic {
		t.Errorf("ParseCategoryFlag = %v, %v", c, err)
	}
	if k, err := ParseKindFlag("fidelity"); err != nil || k != diag.KindFidelity {
		t.Errorf("ParseKindFlag = %v, %v", k, err)
	}
	if s, err := ParseSeverityFlag("warn"); err != nil || s != diag.SeverityWarning {
		t.Errorf("ParseSeverityFlag = %v, %v", s, err)
	}

	for name, parse := range map[string]func(string) error{
		"direction": func(s string) error { _, err := ParseDirectionFlag(s); return err },
		"stage":     func(s string) error { _, err := ParseStageFlag(s); return err },
		"category":  func(s string) error { _, err := ParseCategoryFlag(s); return err },
		"kind":      func(s string) error { _, err := ParseKindFlag(s); return err },
		"severity":  func(s string) error { _, err := ParseSeverityFlag(s); return err },
	} {
		if err := parse("bogus"); err == nil {
			t.Errorf("%s: expected error for bogus value", name)
		}
	}
}

func TestRunView(t *testing.T) {
	path := writeLog(t, testEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[run:"); got != 5 {
		t.Errorf("expected 5 events, got %d", got)
	}

	severity := diag.SeverityError
	buf.Reset()
	if err := RunView(path, ViewFilter{Severity: &severity}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[run:"); got != 1 {
		t.Errorf("expected 1 error diagnostic, got %d:\n%s", got, buf.String())
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{RunID: runA}, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "[run:bbbbbbbb]") {
		t.Errorf("run filter leaked other runs:\n%s", buf.String())
	}

	if err := RunView(filepath.Join(t.TempDir(), "missing.tlog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := writeLog(t, testEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "jsonl", "", &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var first jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Direction != "LWM2M_TO_SDF" || first.Stage != "PARSE" || first.Category != "STAGE" {
		t.Errorf("unexpected enum names: %+v", first)
	}
	if first.StageChange == nil || first.StageChange.Status != "FINISHED" || *first.StageChange.DurationNS != 1500000 {
		t.Errorf("unexpected stage payload: %+v", first.StageChange)
	}

	var diagEvent jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &diagEvent); err != nil {
		t.Fatal(err)
	}
	if diagEvent.Diagnostic == nil || diagEvent.Diagnostic.Kind != "VOCABULARY" || diagEvent.Diagnostic.Path != "3303/5700" {
		t.Errorf("unexpected diagnostic payload: %+v", diagEvent.Diagnostic)
	}
}

func TestRunExportCSV(t *testing.T) {
	path := writeLog(t, testEvents())
	out := filepath.Join(t.TempDir(), "run.csv")

	if err := RunExport(path, "csv", out, nil); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, out)
	if len(records) != 6 {
		t.Fatalf("expected header plus 5 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "timestamp,run_id,direction,stage,category,source,kind,severity,path,message" {
		t.Errorf("unexpected header: %v", records[0])
	}
	row := records[4]
	if row[6] != "STRUCTURAL" || row[7] != "ERROR" || row[8] != "#/sdfObject/T" || row[9] != "missing objectId" {
		t.Errorf("unexpected diagnostic row: %v", row)
	}
	if records[5][9] != "permission denied" {
		t.Errorf("unexpected error row: %v", records[5])
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	reader, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeLog(t, testEvents())
	err := RunExport(path, "xml", "", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestRunFilter(t *testing.T) {
	path := writeLog(t, testEvents())
	out := filepath.Join(t.TempDir(), "filtered.tlog")

	var stdout bytes.Buffer
	opts := FilterOptions{Output: out, Direction: "to-lwm2m", Category: "diagnostic"}
	if err := RunFilter(path, opts, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary: %s", stdout.String())
	}

	reader, err := log.NewReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].RunID != runB || events[0].Diagnostic == nil {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}

func TestRunFilterTimeWindow(t *testing.T) {
	path := writeLog(t, testEvents())
	out := filepath.Join(t.TempDir(), "window.tlog")

	opts := FilterOptions{
		Output:    out,
		TimeStart: base.Add(500 * time.Millisecond).Format(time.RFC3339Nano),
		TimeEnd:   base.Add(3 * time.Second).Format(time.RFC3339),
	}
	var stdout bytes.Buffer
	if err := RunFilter(path, opts, &stdout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Filtered 2 events") {
		t.Errorf("unexpected summary: %s", stdout.String())
	}
}

func TestRunFilterInvalidOptions(t *testing.T) {
	path := writeLog(t, testEvents())
	out := filepath.Join(t.TempDir(), "x.tlog")
	for _, opts := range []FilterOptions{
		{Output: out, TimeStart: "yesterday"},
		{Output: out, TimeEnd: "tomorrow"},
		{Output: out, Stage: "compile"},
		{Output: out, Kind: "cosmic"},
		{Output: out, Severity: "fatal"},
	} {
		if err := RunFilter(path, opts, &bytes.Buffer{}); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestCollectStats(t *testing.T) {
	path := writeLog(t, testEvents())
	stats, err := collectStats(path)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", stats.TotalEvents)
	}
	if stats.EventsByStage[log.StageParse] != 4 || stats.EventsByStage[log.StageWrite] != 1 {
		t.Errorf("unexpected stage counts: %v", stats.EventsByStage)
	}
	if stats.DiagnosticsByKind[diag.KindVocabularyMismatch] != 1 || stats.DiagnosticsByKind[diag.KindStructuralParse] != 1 {
		t.Errorf("unexpected kind counts: %v", stats.DiagnosticsByKind)
	}
	if stats.Warnings != 1 || stats.Errors != 2 {
		t.Errorf("Warnings = %d, Errors = %d, want 1 and 2", stats.Warnings, stats.Errors)
	}
	if len(stats.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(stats.Runs))
	}
	a := stats.Runs[runA]
	if a.Objects != 2 || a.Diagnostics != 1 || a.Failed {
		t.Errorf("unexpected run A: %+v", a)
	}
	if !stats.Runs[runB].Failed {
		t.Error("run B should be marked failed")
	}
}

func TestRunStats(t *testing.T) {
	path := writeLog(t, testEvents())
	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{
		"Total Events: 5",
		"PARSE:       4",
		"VOCABULARY:  1",
		"Runs: 2",
		"[aaaaaaaa] LWM2M_TO_SDF, 3 events, 2 objects, 1 diagnostics",
		"[bbbbbbbb] SDF_TO_LWM2M, 2 events, 0 objects, 1 diagnostics, duration 1s FAILED",
		"Errors: 2",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyLog(t *testing.T) {
	path := writeLog(t, nil)
	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") || strings.Contains(buf.String(), "Time Range") {
		t.Errorf("unexpected output for empty log:\n%s", buf.String())
	}
}
