// Package sdf holds the Semantic Definition Format model and mapping
// documents: JSON types whose object members keep their document order,
// JSON-pointer helpers for addressing definitions, and parse/marshal
// functions.
package sdf

// Info is the document information block.
type Info struct {
	Title     string `json:"title,omitempty"`
	Version   string `json:"version,omitempty"`
	Modified  string `json:"modified,omitempty"`
	Copyright string `json:"copyright,omitempty"`
	License   string `json:"license,omitempty"`
}

// Model is an SDF model document.
type Model struct {
	Info             *Info        `json:"info,omitempty"`
	Namespace        Map[string]  `json:"namespace,omitzero"`
	DefaultNamespace string       `json:"defaultNamespace,omitempty"`
	SdfThing         Map[*Thing]  `json:"sdfThing,omitzero"`
	SdfObject        Map[*Object] `json:"sdfObject,omitzero"`
}

// Thing groups objects.
type Thing struct {
	Label       string       `json:"label,omitempty"`
	Description string       `json:"description,omitempty"`
	SdfRequired []string     `json:"sdfRequired,omitempty"` // JSON pointers
	SdfObject   Map[*Object] `json:"sdfObject,omitzero"`
}

// Object is an sdfObject definition.
type Object struct {
	Label       string         `json:"label,omitempty"`
	Description string         `json:"description,omitempty"`
	SdfRequired []string       `json:"sdfRequired,omitempty"` // JSON pointers
	SdfProperty Map[*Property] `json:"sdfProperty,omitzero"`
	SdfAction   Map[*Action]   `json:"sdfAction,omitzero"`
	SdfEvent    Map[*Event]    `json:"sdfEvent,omitzero"`
}

// DataQualities are the JSON-Schema-like qualities of a data definition.
type DataQualities struct {
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`    // "string", "number", "integer", "boolean", "array", "object"
	SdfType     string   `json:"sdfType,omitempty"` // "byte-string", "unix-time"
	Unit        string   `json:"unit,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
}

// Property is an sdfProperty: data qualities plus interaction flags.
type Property struct {
	DataQualities

	Readable   *bool `json:"readable,omitempty"`
	Writable   *bool `json:"writable,omitempty"`
	Observable *bool `json:"observable,omitempty"`
}

// IsReadable reports the readable flag; absent means true.
func (p *Property) IsReadable() bool { return p.Readable == nil || *p.Readable }

// IsWritable reports the writable flag; absent means true.
func (p *Property) IsWritable() bool { return p.Writable == nil || *p.Writable }

// Action is an sdfAction.
type Action struct {
	Label         string         `json:"label,omitempty"`
	Description   string         `json:"description,omitempty"`
	SdfInputData  *DataQualities `json:"sdfInputData,omitempty"`
	SdfOutputData *DataQualities `json:"sdfOutputData,omitempty"`
}

// Event is an sdfEvent.
type Event struct {
	Label         string         `json:"label,omitempty"`
	Description   string         `json:"description,omitempty"`
	SdfOutputData *DataQualities `json:"sdfOutputData,omitempty"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
