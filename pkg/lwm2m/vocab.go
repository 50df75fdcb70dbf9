package lwm2m

// Operations is the access mode of a Resource.
type Operations uint8

const (
	OperationsUndefined Operations = iota
	OperationsRead
	OperationsWrite
	OperationsReadWrite
	OperationsExecute
)

// Type is the data type of a Resource.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeOpaque
	TypeTime
	TypeObjectLink
)

var operationsByWire = map[string]Operations{
	"R":  OperationsRead,
	"W":  OperationsWrite,
	"RW": OperationsReadWrite,
	"E":  OperationsExecute,
}

var operationsWire = map[Operations]string{
	OperationsRead:      "R",
	OperationsWrite:     "W",
	OperationsReadWrite: "RW",
	OperationsExecute:   "E",
}

// The wire spelling of ObjectLink is "Objlnk".
var typeByWire = map[string]Type{
	"String":  TypeString,
	"Integer": TypeInteger,
	"Float":   TypeFloat,
	"Boolean": TypeBoolean,
	"Opaque":  TypeOpaque,
	"Time":    TypeTime,
	"Objlnk":  TypeObjectLink,
}

var typeWire = map[Type]string{
	TypeString:     "String",
	TypeInteger:    "Integer",
	TypeFloat:      "Float",
	TypeBoolean:    "Boolean",
	TypeOpaque:     "Opaque",
	TypeTime:       "Time",
	TypeObjectLink: "Objlnk",
}

// ParseOperations decodes the wire text of an Operations element.
// Unknown text yields OperationsUndefined and ok=false.
func ParseOperations(s string) (op Operations, ok bool) {
	op, ok = operationsByWire[s]
	return op, ok
}

// String returns the wire text ("R", "W", "RW", "E"), or "" for Undefined.
func (o Operations) String() string {
	return operationsWire[o]
}

// CanRead reports whether the resource is readable.
func (o Operations) CanRead() bool { return o == OperationsRead || o == OperationsReadWrite }

// CanWrite reports whether the resource is writable.
func (o Operations) CanWrite() bool { return o == OperationsWrite || o == OperationsReadWrite }

// OperationsFor returns the operations for the given access flags.
func OperationsFor(readable, writable bool) Operations {
	switch {
	case readable && writable:
		return OperationsReadWrite
	case readable:
		return OperationsRead
	case writable:
		return OperationsWrite
	default:
		return OperationsUndefined
	}
}

// ParseType decodes the wire text of a Type element.
// Unknown text yields TypeUndefined and ok=false.
func ParseType(s string) (t Type, ok bool) {
	t, ok = typeByWire[s]
	return t, ok
}

// String returns the wire text of the type, or "" for Undefined.
func (t Type) String() string {
	return typeWire[t]
}

// Two-valued vocabularies. Only the exact "false" spelling maps to false;
// absent or unrecognized text maps to true.
const (
	wireSingle    = "Single"
	wireMultiple  = "Multiple"
	wireOptional  = "Optional"
	wireMandatory = "Mandatory"
)

// ParseMultipleInstances decodes a MultipleInstances element. known is false
// when s is neither "Single" nor "Multiple".
func ParseMultipleInstances(s string) (multiple, known bool) {
	return s != wireSingle, s == wireSingle || s == wireMultiple
}

// ParseMandatory decodes a Mandatory element. known is false when s is
// neither "Optional" nor "Mandatory".
func ParseMandatory(s string) (mandatory, known bool) {
	return s != wireOptional, s == wireOptional || s == wireMandatory
}

// FormatMultipleInstances is the inverse of ParseMultipleInstances.
func FormatMultipleInstances(multiple bool) string {
	if multiple {
		return wireMultiple
	}
	return wireSingle
}

// FormatMandatory is the inverse of ParseMandatory.
func FormatMandatory(mandatory bool) string {
	if mandatory {
		return wireMandatory
	}
	return wireOptional
}
