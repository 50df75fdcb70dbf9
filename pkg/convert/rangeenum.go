package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sdf-lwm2m/converter-go/pkg/lwm2m"
	"github.com/sdf-lwm2m/converter-go/pkg/sdf"
)

const rangeSep = ".."

var (
	numberPattern = `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`
	rangeRe       = regexp.MustCompile(`^\s*(` + numberPattern + `)\s*(?:\.\.|-)\s*(` + numberPattern + `)\s*$`)
)

// foldRange copies a RangeEnumeration into SDF data qualities where it is
// representable. Numeric types take "a..b" or "a-b" as minimum/maximum and
// a comma list of numbers as enum; String and Opaque take an integer range
// as minLength/maxLength. It returns the canonical rendering of what was
// folded; folded is false when nothing could be represented. A negative
// zero has no canonical form since JSON numbers do not keep its sign.
func foldRange(t lwm2m.Type, text string, dq *sdf.DataQualities) (canonical string, folded bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	switch t {
	case lwm2m.TypeInteger, lwm2m.TypeFloat:
		if lo, hi, ok := parseRange(text); ok {
			if t == lwm2m.TypeInteger && (!integral(lo) || !integral(hi)) {
				return "", false
			}
			dq.Minimum, dq.Maximum = sdf.Float(lo), sdf.Float(hi)
			return canonicalRange(lo, hi), true
		}
		if values, ok := parseEnum(text); ok {
			dq.Enum = make([]any, len(values))
			for i, v := range values {
				dq.Enum[i] = v
			}
			if negativeZero(values...) {
				return "", true
			}
			return renderEnum(values), true
		}
	case lwm2m.TypeString, lwm2m.TypeOpaque:
		if lo, hi, ok := parseRange(text); ok && integral(lo) && integral(hi) && lo >= 0 {
			dq.MinLength, dq.MaxLength = sdf.Int(int(lo)), sdf.Int(int(hi))
			return canonicalRange(lo, hi), true
		}
	}
	return "", false
}

// unfoldRange rebuilds a RangeEnumeration from SDF data qualities. It is the
// inverse of foldRange for canonical input.
func unfoldRange(dq *sdf.DataQualities) string {
	if dq == nil {
		return ""
	}
	if dq.Minimum != nil && dq.Maximum != nil {
		return renderRange(*dq.Minimum, *dq.Maximum)
	}
	if len(dq.Enum) > 0 {
		values := make([]float64, 0, len(dq.Enum))
		for _, e := range dq.Enum {
			f, ok := e.(float64)
			if !ok {
				return ""
			}
			values = append(values, f)
		}
		return renderEnum(values)
	}
	if dq.MinLength != nil && dq.MaxLength != nil {
		return renderRange(float64(*dq.MinLength), float64(*dq.MaxLength))
	}
	return ""
}

func parseRange(text string) (lo, hi float64, ok bool) {
	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

func parseEnum(text string) ([]float64, bool) {
	parts := strings.Split(text, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		values = append(values, f)
	}
	return values, true
}

func canonicalRange(lo, hi float64) string {
	if negativeZero(lo, hi) {
		return ""
	}
	return renderRange(lo, hi)
}

func negativeZero(values ...float64) bool {
	for _, v := range values {
		if v == 0 && math.Signbit(v) {
			return true
		}
	}
	return false
}

func renderRange(lo, hi float64) string {
	return formatNumber(lo) + rangeSep + formatNumber(hi)
}

func renderEnum(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ",")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func integral(f float64) bool {
	return f == float64(int64(f))
}
