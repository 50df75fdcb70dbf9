// Package validate checks converter outputs: SDF documents against a JSON
// Schema and LwM2M documents against the Object/Device profile rules.
package validate

import (
	"fmt"

	"github.com/sdf-lwm2m/converter-go/pkg/diag"
)

// Issue is one validation finding.
type Issue struct {
	Code    string
	Message string
	Path    string // JSON field or element path; may be empty
}

func (e Issue) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Result contains the results of validating one document.
type Result struct {
	// Valid is true if the document passed all checks.
	Valid bool

	// Errors contains all validation errors.
	Errors []Issue

	// Warnings contains non-fatal issues.
	Warnings []Issue
}

func newResult() *Result {
	return &Result{Valid: true}
}

// AddError adds a validation error.
func (r *Result) AddError(code, path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
	r.Valid = false
}

// AddWarning adds a validation warning.
func (r *Result) AddWarning(code, path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Record copies the findings into report as VALIDATION diagnostics whose
// paths are prefixed with source.
func (r *Result) Record(report *diag.Report, source string) {
	for _, e := range r.Errors {
		report.Error(diag.KindValidation, join(source, e.Path), "%s: %s", e.Code, e.Message)
	}
	for _, w := range r.Warnings {
		report.Warn(diag.KindValidation, join(source, w.Path), "%s: %s", w.Code, w.Message)
	}
}

func join(source, path string) string {
	switch {
	case source == "":
		return path
	case path == "":
		return source
	}
	return source + ": " + path
}
