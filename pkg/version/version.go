// Package version provides LwM2M version parsing, comparison and Object URN
// helpers.
//
// LwM2M carries two dotted versions per Object: the enabler version
// (LWM2MVersion) and the Object definition version (ObjectVersion). Both are
// "major.minor" and compare numerically, never lexically: 1.10 is not a
// version distinct from 1.1 once it has been read as a number.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SupportedEnablerVersions lists the LwM2M enabler versions the converter
// knows the schema of.
var SupportedEnablerVersions = []string{"1.0", "1.1", "1.2"}

// SpecVersion represents a parsed "major.minor" version.
type SpecVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SpecVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return SpecVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return SpecVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// Default is the version implied when a document carries none.
var Default = SpecVersion{Major: 1}

// Format renders a numeric version with at least one fractional digit:
// 1 -> "1.0", 1.1 -> "1.1".
func Format(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String returns the version as "major.minor".
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 comparing v to other numerically.
func (v SpecVersion) Compare(other SpecVersion) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor != other.Minor:
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// IsSupportedEnabler reports whether v equals one of
// SupportedEnablerVersions.
func (v SpecVersion) IsSupportedEnabler() bool {
	for _, s := range SupportedEnablerVersions {
		if sv, err := Parse(s); err == nil && v.Compare(sv) == 0 {
			return true
		}
	}
	return false
}

// URN is a parsed LwM2M Object URN, urn:oma:lwm2m:{oma|ext|x}:{id}[:{version}].
type URN struct {
	Kind     string
	ObjectID int
	// Version is empty when the URN carries none (implies 1.0).
	Version string
}

// String renders the URN.
func (u URN) String() string {
	s := fmt.Sprintf("urn:oma:lwm2m:%s:%d", u.Kind, u.ObjectID)
	if u.Version != "" {
		s += ":" + u.Version
	}
	return s
}

// ParseURN parses an Object URN.
func ParseURN(s string) (URN, error) {
	const prefix = "urn:oma:lwm2m:"
	if !strings.HasPrefix(s, prefix) {
		return URN{}, fmt.Errorf("not an LwM2M object URN: %q", s)
	}
	parts := strings.Split(s[len(prefix):], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return URN{}, fmt.Errorf("invalid LwM2M object URN: %q", s)
	}
	switch parts[0] {
	case "oma", "ext", "x":
	default:
		return URN{}, fmt.Errorf("invalid LwM2M object URN kind %q in %q", parts[0], s)
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil || id < 0 {
		return URN{}, fmt.Errorf("invalid object id in URN %q", s)
	}
	u := URN{Kind: parts[0], ObjectID: id}
	if len(parts) == 3 {
		if _, err := Parse(parts[2]); err != nil {
			return URN{}, fmt.Errorf("invalid version in URN %q: %w", s, err)
		}
		u.Version = parts[2]
	}
	return u, nil
}

// URNKind returns the registry namespace of an object id: "oma" for OMA
// objects, "x" for vendor objects and "ext" for third-party standards.
func URNKind(objectID int) string {
	switch {
	case objectID < 2048:
		return "oma"
	case objectID >= 10241 && objectID <= 32768:
		return "x"
	default:
		return "ext"
	}
}

// ObjectURN builds the URN of an object. The version suffix is only present
// for object versions other than 1.0; the zero version means 1.0.
func ObjectURN(objectID int, objectVersion SpecVersion) string {
	u := URN{Kind: URNKind(objectID), ObjectID: objectID}
	if objectVersion != (SpecVersion{}) && objectVersion.Compare(Default) != 0 {
		u.Version = objectVersion.String()
	}
	return u.String()
}
