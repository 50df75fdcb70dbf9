package sdf

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Indent is the indentation of marshaled documents.
const Indent = "    "

// ParseModel parses an SDF model document.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing sdf model: %w", err)
	}
	if m.SdfObject.Len() == 0 && m.SdfThing.Len() == 0 {
		return nil, fmt.Errorf("sdf model has neither sdfObject nor sdfThing")
	}
	return &m, nil
}

// ParseMapping parses an SDF mapping document. A mapping without a "map"
// member is valid and empty.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing sdf mapping: %w", err)
	}
	return &m, nil
}

// Marshal encodes a model or mapping with four-space indentation and a
// trailing newline. HTML characters are not escaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Objects visits every sdfObject of the model in document order: first the
// objects of each sdfThing, then the top-level objects. parent is the
// pointer of the containing thing, or "" at top level.
func (m *Model) Objects(visit func(parent, name string, o *Object)) {
	for tname, t := range m.SdfThing.All() {
		if t == nil {
			continue
		}
		parent := ThingPointer(tname)
		for oname, o := range t.SdfObject.All() {
			if o != nil {
				visit(parent, oname, o)
			}
		}
	}
	for oname, o := range m.SdfObject.All() {
		if o != nil {
			visit("", oname, o)
		}
	}
}
