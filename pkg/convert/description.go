package convert

import (
	"fmt"
	"strings"
)

const descriptionSep = "\n\n"

// joinDescriptions merges the two Object descriptions into one SDF
// description, separated by a blank line. Empty parts are skipped.
func joinDescriptions(d1, d2 string) string {
	switch {
	case d1 == "":
		return d2
	case d2 == "":
		return d1
	}
	return d1 + descriptionSep + d2
}

// splitDescriptions undoes joinDescriptions given the Description2 kept in
// the mapping. Without it the whole text is Description1.
func splitDescriptions(desc, d2 string) (string, string) {
	if d2 == "" {
		return desc, ""
	}
	if desc == d2 {
		return "", d2
	}
	if d1, ok := strings.CutSuffix(desc, descriptionSep+d2); ok {
		return d1, d2
	}
	return desc, d2
}

// uniqueKey returns name, or name suffixed with the LwM2M id when a sibling
// already uses it.
func uniqueKey(taken func(string) bool, name string, id int) string {
	key := name
	for taken(key) {
		key = fmt.Sprintf("%s_%d", key, id)
	}
	return key
}
