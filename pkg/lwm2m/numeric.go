package lwm2m

import (
	"strconv"
	"strings"
)

// atoi converts the leading integer of s. exact is false when s had no
// numeric prefix (the result is then 0) or carried trailing text.
func atoi(s string) (n int, exact bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, end == len(s)
}

// atof converts the longest leading float of s. exact is false when s had
// no numeric prefix (the result is then 0) or carried trailing text.
func atof(s string) (f float64, exact bool) {
	s = strings.TrimSpace(s)
	for end := len(s); end > 0; end-- {
		v, err := strconv.ParseFloat(s[:end], 64)
		if err == nil {
			return v, end == len(s)
		}
	}
	return 0, false
}
