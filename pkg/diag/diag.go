// Package diag carries the non-fatal diagnostics produced while parsing and
// translating device models.
//
// Translation never aborts a whole batch. Each stage appends diagnostics to
// a Report and the caller decides what is fatal. A unit of input that cannot
// be translated at all (a structurally malformed Object) is returned as a
// *StructuralError and also recorded in the report.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	// KindStructuralParse is a malformed source tree (missing substructure).
	KindStructuralParse Kind = iota
	// KindVocabularyMismatch is enum text that matches no known variant.
	KindVocabularyMismatch
	// KindNumericParse is non-numeric text in a numeric field.
	KindNumericParse
	// KindMappingIncomplete is a reverse translation missing mapping data.
	KindMappingIncomplete
	// KindIO is a file operation failure reported by the I/O layer.
	KindIO
	// KindValidation is a schema or profile validation failure.
	KindValidation
	// KindFidelity is a field that did not survive a round trip.
	KindFidelity
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStructuralParse:
		return "STRUCTURAL"
	case KindVocabularyMismatch:
		return "VOCABULARY"
	case KindNumericParse:
		return "NUMERIC"
	case KindMappingIncomplete:
		return "MAPPING"
	case KindIO:
		return "IO"
	case KindValidation:
		return "VALIDATION"
	case KindFidelity:
		return "FIDELITY"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses a kind name as returned by String (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for k := KindStructuralParse; k <= KindFidelity; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic kind: %q", s)
}

// Severity tells whether a diagnostic is a warning or an error.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Kind     Kind
	Severity Severity

	// Path locates the finding: a file path, an Object/Resource address
	// such as "3303/5700" or an SDF JSON pointer.
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Kind, d.Path, d.Message)
}

// Report accumulates diagnostics. It is safe for concurrent use; the zero
// value is ready to use.
type Report struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Add appends a diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.mu.Unlock()
}

// Warn appends a warning.
func (r *Report) Warn(kind Kind, path, format string, args ...any) {
	r.Add(Diagnostic{Kind: kind, Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Error appends an error.
func (r *Report) Error(kind Kind, path, format string, args ...any) {
	r.Add(Diagnostic{Kind: kind, Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Merge appends all diagnostics of other.
func (r *Report) Merge(other *Report) {
	if other == nil || other == r {
		return
	}
	ds := other.Diagnostics()
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, ds...)
	r.mu.Unlock()
}

// Diagnostics returns a copy of all diagnostics in insertion order.
func (r *Report) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Len returns the number of diagnostics.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diagnostics)
}

// Filter returns the diagnostics of the given kind.
func (r *Report) Filter(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics() {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of diagnostics per kind.
func (r *Report) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range r.Diagnostics() {
		counts[d.Kind]++
	}
	return counts
}

// Summary renders the per-kind counts, e.g. "2 VOCABULARY, 1 MAPPING".
func (r *Report) Summary() string {
	counts := r.Counts()
	if len(counts) == 0 {
		return "no diagnostics"
	}
	kinds := make([]Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return strings.Join(parts, ", ")
}
