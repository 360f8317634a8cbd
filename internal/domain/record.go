package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Record is an opaque resource payload (materials, labour, issues, expenses).
// The client never validates its shape.
type Record map[string]any

// leadingKeys are shown first, in this order, when present.
var leadingKeys = []string{"id", "name", "title", "category", "role", "status"}

// ID returns the record's identifier as text, or "" if it has none.
func (r Record) ID() string {
	for _, k := range []string{"id", "_id"} {
		if v, ok := r[k]; ok && v != nil {
			return FormatValue(v)
		}
	}
	return ""
}

// Keys returns the record's keys with identifying fields first and the rest sorted.
func (r Record) Keys() []string {
	seen := make(map[string]bool, len(r))
	var keys []string
	for _, k := range leadingKeys {
		if _, ok := r[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range r {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Field returns the display form of the value at key.
func (r Record) Field(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Number returns the value at key as a float, if it is numeric.
func (r Record) Number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// UnionKeys merges the keys of all records, preserving Keys ordering rules.
func UnionKeys(records []Record) []string {
	merged := Record{}
	for _, r := range records {
		for k := range r {
			merged[k] = nil
		}
	}
	return merged.Keys()
}

// FormatValue renders a decoded JSON value compactly.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
