package log

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
)

// Run stamps events with one run ID and direction and times stages.
// It is safe for concurrent use.
type Run struct {
	id        string
	direction Direction
	logger    Logger
	now       func() time.Time

	mu     sync.Mutex
	starts map[Stage]time.Time
}

// NewRun starts a run with a fresh random ID. A nil logger discards events.
func NewRun(logger Logger, direction Direction) *Run {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Run{
		id:        uuid.NewString(),
		direction: direction,
		logger:    logger,
		now:       time.Now,
		starts:    make(map[Stage]time.Time),
	}
}

// ID returns the run ID.
func (r *Run) ID() string { return r.id }

func (r *Run) event(stage Stage, category Category, source string) Event {
	return Event{
		Timestamp: r.now(),
		RunID:     r.id,
		Direction: r.direction,
		Stage:     stage,
		Category:  category,
		Source:    source,
	}
}

// Start records the beginning of a stage.
func (r *Run) Start(stage Stage, source string) {
	e := r.event(stage, CategoryStage, source)
	r.mu.Lock()
	r.starts[stage] = e.Timestamp
	r.mu.Unlock()
	e.StageChange = &StageEvent{Status: StatusStarted}
	r.logger.Log(e)
}

// Finish records the end of a stage with the number of Objects handled
// and diagnostics produced.
func (r *Run) Finish(stage Stage, source string, objects, diagnostics int) {
	e := r.event(stage, CategoryStage, source)
	se := &StageEvent{Status: StatusFinished, Objects: objects, Diagnostics: diagnostics}
	r.mu.Lock()
	if started, ok := r.starts[stage]; ok {
		d := e.Timestamp.Sub(started)
		se.Duration = &d
		delete(r.starts, stage)
	}
	r.mu.Unlock()
	e.StageChange = se
	r.logger.Log(e)
}

// Fail records a stage failure.
func (r *Run) Fail(stage Stage, source string, err error) {
	e := r.event(stage, CategoryError, source)
	e.Error = &ErrorEventData{Message: err.Error(), Context: stage.String()}
	r.logger.Log(e)
}

// Report logs every diagnostic of report as a separate event.
func (r *Run) Report(stage Stage, source string, report *diag.Report) {
	for _, e := range FromReport(r.event(stage, CategoryDiagnostic, source), report) {
		r.logger.Log(e)
	}
}

// FromReport converts the diagnostics of report into events that copy
// every header field of base.
func FromReport(base Event, report *diag.Report) []Event {
	if report == nil {
		return nil
	}
	ds := report.Diagnostics()
	events := make([]Event, 0, len(ds))
	for _, d := range ds {
		e := base
		e.Category = CategoryDiagnostic
		e.StageChange, e.Error = nil, nil
		e.Diagnostic = &DiagnosticEvent{
			Kind:     d.Kind,
			Severity: d.Severity,
			Path:     d.Path,
			Message:  d.Message,
		}
		events = append(events, e)
	}
	return events
}
