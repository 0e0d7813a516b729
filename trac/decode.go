package trac

import (
	"fmt"
	"strconv"
	"time"
)

// The XML-RPC decoder hands back untyped values.  These helpers are lenient: integers may arrive as
// int, int64 or float64 depending on the decoder, and Trac sends timestamps either as
// dateTime.iso8601 or as unix seconds.

func decodeInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func decodeInts(v any) []int {
	items, _ := v.([]any)
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, decodeInt(item))
	}
	return out
}

func decodeString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func decodeStrings(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, decodeString(item))
	}
	return out
}

func decodeBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int, int64, float64:
		return decodeInt(b) != 0
	case string:
		return b == "1" || b == "true"
	}
	return false
}

func decodeBytes(v any) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	}
	return nil
}

var isoLayouts = []string{
	"20060102T15:04:05",
	"2006-01-02T15:04:05",
	"20060102T15:04:05Z07:00",
	time.RFC3339,
}

func decodeTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case int, int64, float64:
		return time.Unix(int64(decodeInt(t)), 0).UTC()
	case string:
		for _, layout := range isoLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func decodeSlice(v any, what string) ([]any, error) {
	items, ok := v.([]any)
	if !ok && v != nil {
		return nil, fmt.Errorf("trac: expected array for %s, got %T", what, v)
	}
	return items, nil
}

func decodeStringMap(v any) map[string]string {
	m, _ := v.(map[string]any)
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = decodeString(val)
	}
	return out
}
