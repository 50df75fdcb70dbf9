package sdf

import (
	"encoding/json"
	"math"
	"strconv"
)

// Mapping is an SDF mapping document: extra qualities for definitions of a
// model, keyed by the JSON pointer of the definition.
type Mapping struct {
	Info             *Info           `json:"info,omitempty"`
	Namespace        Map[string]     `json:"namespace,omitzero"`
	DefaultNamespace string          `json:"defaultNamespace,omitempty"`
	Map              Map[*Qualities] `json:"map,omitzero"`
}

// Qualities is the ordered bag of mapping qualities for one definition.
// Values are JSON values: string, float64, bool, []any or map[string]any
// after parsing; any JSON-encodable value when building.
type Qualities struct {
	Map[any]
}

// Entry returns the qualities for pointer, or nil.
func (m *Mapping) Entry(pointer string) *Qualities {
	q, _ := m.Map.Get(pointer)
	return q
}

// Upsert returns the qualities for pointer, creating the entry if needed.
func (m *Mapping) Upsert(pointer string) *Qualities {
	if q, ok := m.Map.Get(pointer); ok && q != nil {
		return q
	}
	q := &Qualities{}
	m.Map.Set(pointer, q)
	return q
}

// String returns a string quality.
func (q *Qualities) String(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	v, ok := q.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns a boolean quality.
func (q *Qualities) Bool(key string) (bool, bool) {
	if q == nil {
		return false, false
	}
	v, ok := q.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Float returns a numeric quality. Numeric strings are accepted.
func (q *Qualities) Float(key string) (float64, bool) {
	if q == nil {
		return 0, false
	}
	v, ok := q.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Int returns an integral numeric quality.
func (q *Qualities) Int(key string) (int, bool) {
	f, ok := q.Float(key)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Ints returns a list of integral numbers.
func (q *Qualities) Ints(key string) ([]int, bool) {
	if q == nil {
		return nil, false
	}
	v, ok := q.Get(key)
	if !ok {
		return nil, false
	}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []int:
		return append([]int(nil), t...), true
	default:
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		f, ok := toFloat(it)
		if !ok || f != math.Trunc(f) {
			return nil, false
		}
		out = append(out, int(f))
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
