package parse

import (
	"encoding/json"
	"strings"
)

// FoodList decodes the JSON array of food names sent with an event form.
// Anything that is not a JSON array of strings yields an empty list.
func FoodList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return []string{}
	}
	return Clean(names)
}

// Tags flattens repeated and comma-separated query values into a list of
// distinct, trimmed tags, keeping first-seen order.
func Tags(values []string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return Clean(parts)
}

// Clean trims every entry and drops blanks and duplicates.
func Clean(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
