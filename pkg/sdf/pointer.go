package sdf

import (
	"fmt"
	"strings"
)

// Definition group names used in pointers.
const (
	KeyThing    = "sdfThing"
	KeyObject   = "sdfObject"
	KeyProperty = "sdfProperty"
	KeyAction   = "sdfAction"
	KeyEvent    = "sdfEvent"
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Pointer builds a same-document JSON pointer ("#/a/b") from raw segments.
func Pointer(segments ...string) string {
	var b strings.Builder
	b.WriteByte('#')
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(escaper.Replace(s))
	}
	return b.String()
}

// Join appends raw segments to an existing pointer.
func Join(base string, segments ...string) string {
	if base == "" {
		base = "#"
	}
	return base + strings.TrimPrefix(Pointer(segments...), "#")
}

// Split returns the unescaped segments of a pointer built by Pointer.
func Split(p string) ([]string, error) {
	if !strings.HasPrefix(p, "#") {
		return nil, fmt.Errorf("pointer %q: missing '#'", p)
	}
	rest := p[1:]
	if rest == "" {
		return nil, nil
	}
	if rest[0] != '/' {
		return nil, fmt.Errorf("pointer %q: expected '/' after '#'", p)
	}
	parts := strings.Split(rest[1:], "/")
	for i, s := range parts {
		parts[i] = unescaper.Replace(s)
	}
	return parts, nil
}

// ObjectPointer addresses an sdfObject below parent ("" for top level).
func ObjectPointer(parent, name string) string {
	return Join(parent, KeyObject, name)
}

// ThingPointer addresses a top-level sdfThing.
func ThingPointer(name string) string {
	return Pointer(KeyThing, name)
}

// PropertyPointer addresses an sdfProperty of the object at obj.
func PropertyPointer(obj, name string) string {
	return Join(obj, KeyProperty, name)
}

// ActionPointer addresses an sdfAction of the object at obj.
func ActionPointer(obj, name string) string {
	return Join(obj, KeyAction, name)
}

// EventPointer addresses an sdfEvent of the object at obj.
func EventPointer(obj, name string) string {
	return Join(obj, KeyEvent, name)
}
