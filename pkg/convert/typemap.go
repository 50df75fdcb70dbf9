package convert

import "github.com/sdf-lwm2m/converter-go/pkg/lwm2m"

// SDF data types and sdfType values used by the type table.
const (
	sdfString     = "string"
	sdfInteger    = "integer"
	sdfNumber     = "number"
	sdfBoolean    = "boolean"
	sdfByteString = "byte-string"
)

type sdfDataType struct {
	typ     string
	sdfType string
}

// sdfTypes is the forward type table. Undefined has no entry.
var sdfTypes = map[lwm2m.Type]sdfDataType{
	lwm2m.TypeString:     {typ: sdfString},
	lwm2m.TypeInteger:    {typ: sdfInteger},
	lwm2m.TypeFloat:      {typ: sdfNumber},
	lwm2m.TypeBoolean:    {typ: sdfBoolean},
	lwm2m.TypeOpaque:     {typ: sdfString, sdfType: sdfByteString},
	lwm2m.TypeTime:       {typ: sdfString},
	lwm2m.TypeObjectLink: {typ: sdfString},
}

// lwm2mTypes inverts sdfTypes where the inverse is unambiguous. Time and
// ObjectLink collapse to String and are only recovered from the mapping.
var lwm2mTypes = map[sdfDataType]lwm2m.Type{
	{typ: sdfString}:                         lwm2m.TypeString,
	{typ: sdfInteger}:                        lwm2m.TypeInteger,
	{typ: sdfNumber}:                         lwm2m.TypeFloat,
	{typ: sdfBoolean}:                        lwm2m.TypeBoolean,
	{typ: sdfString, sdfType: sdfByteString}: lwm2m.TypeOpaque,
}

// sdfTypeOf returns the SDF type and sdfType for t; ok is false for
// Undefined.
func sdfTypeOf(t lwm2m.Type) (typ, sdfType string, ok bool) {
	dt, ok := sdfTypes[t]
	return dt.typ, dt.sdfType, ok
}

// lwm2mTypeOf infers the resource type from SDF data qualities. An sdfType
// the table does not know is ignored in favour of the plain type.
func lwm2mTypeOf(typ, sdfType string) (lwm2m.Type, bool) {
	if t, ok := lwm2mTypes[sdfDataType{typ: typ, sdfType: sdfType}]; ok {
		return t, true
	}
	t, ok := lwm2mTypes[sdfDataType{typ: typ}]
	return t, ok
}
