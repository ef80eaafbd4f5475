// Package util provides lenient field extraction helpers for the
// loosely-typed JSON payloads the remote API returns. Server responses
// are decoded into map[string]any before normalization, so every helper
// here tolerates missing keys and mixed value types.
package util

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// StringField returns the first non-empty string value found under the
// given keys, rendering numeric values as their decimal form the way
// identifiers arrive from the API (e.g. 42 -> "42").
func StringField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := record[key]
		if !ok {
			continue
		}
		if s := Stringify(value); s != "" {
			return s
		}
	}

	return ""
}

// Stringify converts a scalar value to its string form. Non-scalar and
// nil values become "".
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// NumberField returns the first parseable numeric value found under the
// given keys. Numeric strings count; anything else is skipped.
func NumberField(record map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		value, ok := record[key]
		if !ok {
			continue
		}
		if n := ParseNumber(value); n != nil {
			return n
		}
	}

	return nil
}

// ParseNumber leniently converts a number or numeric string to a float,
// returning nil for everything else (including NaN and infinities).
func ParseNumber(value any) *float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}

		return &v
	case int:
		f := float64(v)

		return &f
	case int64:
		f := float64(v)

		return &f
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}

		return &parsed
	default:
		return nil
	}
}

// TimeField returns the first parseable RFC 3339 timestamp found under
// the given keys, or nil when none parses.
func TimeField(record map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		value, ok := record[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case time.Time:
			return &v
		case string:
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				return &parsed
			}
		}
	}

	return nil
}
