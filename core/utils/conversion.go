package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToInt converts loosely typed payload values to int. Unparseable values become 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(s, 64)
		return int(f)
	default:
		i, _ := strconv.Atoi(fmt.Sprintf("%v", v))
		return i
	}
}

// ToString converts payload values to string. nil becomes the empty string
// and whole floats lose their fraction, so JSON ids decode as "123" not "123.000000".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts payload values to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32, float64, float32:
		return ToInt(v) == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true"
	default:
		return false
	}
}

// ToBoolPtr is ToBool that keeps absence: nil and "" yield nil.
func ToBoolPtr(val any) *bool {
	if val == nil || val == "" {
		return nil
	}
	b := ToBool(val)
	return &b
}

// ToFloatPtr converts payload values to *float64. Missing or unparseable values yield nil.
func ToFloatPtr(val any) *float64 {
	var f float64
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// ToTimePtr converts an RFC 3339 string or unix seconds to *time.Time in UTC.
func ToTimePtr(val any) *time.Time {
	var t time.Time
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if secs, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
				parsed = time.Unix(secs, 0)
			} else {
				return nil
			}
		}
		t = parsed
	case float64:
		t = time.Unix(int64(v), 0)
	case int64:
		t = time.Unix(v, 0)
	case int:
		t = time.Unix(int64(v), 0)
	case time.Time:
		t = v
	default:
		return nil
	}
	t = t.UTC()
	return &t
}
