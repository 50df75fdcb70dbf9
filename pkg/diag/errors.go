package diag

import "fmt"

// StructuralError aborts the translation of one top-level unit (an Object
// or a document). Sibling units are unaffected.
type StructuralError struct {
	// Path locates the unit, e.g. "clusters/temp.xml" or "Object 3303".
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Path == "" {
		return "structural parse error: " + e.Reason
	}
	return fmt.Sprintf("structural parse error at %s: %s", e.Path, e.Reason)
}

// Structuralf creates a StructuralError with a formatted reason.
func Structuralf(path, format string, args ...any) *StructuralError {
	return &StructuralError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
