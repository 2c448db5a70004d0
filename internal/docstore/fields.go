package docstore

import (
	"fmt"
	"time"
)

// Timestamps are stored as fixed-width UTC strings so that ordering documents
// by a timestamp field lexicographically matches chronological order.
// RFC3339Nano would trim trailing fractional zeros and break that property.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func EncodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// String returns the named field as a string. A missing or null field reads
// as ""; a present field of any other type is a field error.
func String(fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, raw)
	}
	return s, nil
}

// StringSlice returns the named field as a slice of strings. JSON round-trips
// deliver arrays as []any, so both representations are accepted.
func StringSlice(fields map[string]any, key string) ([]string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch vs := raw.(type) {
	case []string:
		return vs, nil
	case []any:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field %q: expected string element, got %T", key, v)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %q: expected string array, got %T", key, raw)
	}
}

// Time returns the named timestamp field. A missing or null field reads as
// the zero time.
func Time(fields map[string]any, key string) (time.Time, error) {
	s, err := String(fields, key)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", key, err)
	}
	return t, nil
}

// TimePtr is Time for optional fields: a missing field reads as nil.
func TimePtr(fields map[string]any, key string) (*time.Time, error) {
	t, err := Time(fields, key)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}
