package log

import (
	"time"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
)

// Event is one translation log record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies one converter invocation (UUID).
	RunID string `cbor:"2,keyasint"`

	// Direction of the translation.
	Direction Direction `cbor:"3,keyasint"`

	// Stage of the pipeline that emitted the event.
	Stage Stage `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Source is the input or output file the event concerns.
	Source string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StageChange *StageEvent      `cbor:"10,keyasint,omitempty"`
	Diagnostic  *DiagnosticEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData  `cbor:"12,keyasint,omitempty"`
}

// Direction is the translation direction of a run.
type Direction uint8

const (
	// DirectionToSDF translates LwM2M into SDF.
	DirectionToSDF Direction = 0
	// DirectionToLwM2M translates SDF into LwM2M.
	DirectionToLwM2M Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionToSDF:
		return "LWM2M_TO_SDF"
	case DirectionToLwM2M:
		return "SDF_TO_LWM2M"
	default:
		return "UNKNOWN"
	}
}

// Stage is a step of the converter pipeline.
type Stage uint8

const (
	StageParse     Stage = 0
	StageTranslate Stage = 1
	StageRoundTrip Stage = 2
	StageValidate  Stage = 3
	StageWrite     Stage = 4
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageParse:
		return "PARSE"
	case StageTranslate:
		return "TRANSLATE"
	case StageRoundTrip:
		return "ROUNDTRIP"
	case StageValidate:
		return "VALIDATE"
	case StageWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryStage marks a stage starting or finishing.
	CategoryStage Category = 0
	// CategoryDiagnostic carries one translation diagnostic.
	CategoryDiagnostic Category = 1
	// CategoryError is a failure that stopped a stage.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStage:
		return "STAGE"
	case CategoryDiagnostic:
		return "DIAGNOSTIC"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Status is the lifecycle point a StageEvent records.
type Status uint8

const (
	StatusStarted  Status = 0
	StatusFinished Status = 1
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "STARTED"
	case StatusFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// StageEvent captures a pipeline stage boundary.
type StageEvent struct {
	Status Status `cbor:"1,keyasint"`

	// Objects is the number of Objects the stage handled (finished only).
	Objects int `cbor:"2,keyasint,omitempty"`

	// Diagnostics is the number of diagnostics the stage produced.
	Diagnostics int `cbor:"3,keyasint,omitempty"`

	// Duration since the matching StatusStarted event, in nanoseconds.
	Duration *time.Duration `cbor:"4,keyasint,omitempty"`
}

// DiagnosticEvent mirrors a diag.Diagnostic.
type DiagnosticEvent struct {
	Kind     diag.Kind     `cbor:"1,keyasint"`
	Severity diag.Severity `cbor:"2,keyasint"`

	// Path locates the finding inside the document (pointer or Object/Resource address).
	Path    string `cbor:"3,keyasint,omitempty"`
	Message string `cbor:"4,keyasint"`
}

// ErrorEventData captures a stage failure.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
