package impl

import (
	"time"
)

// Decoding helpers tolerate the value types the different backends hand back
// (int64 vs float64 numbers, time.Time vs RFC 3339 strings, []interface{} lists).

func getString(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func getStringPtr(data map[string]interface{}, key string) *string {
	s, ok := data[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func getBool(data map[string]interface{}, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func getInt64(data map[string]interface{}, key string) int64 {
	f, ok := toFloat(data[key])
	if !ok {
		return 0
	}
	return int64(f)
}

func getIntPtr(data map[string]interface{}, key string) *int {
	f, ok := toFloat(data[key])
	if !ok {
		return nil
	}
	i := int(f)
	return &i
}

func getFloat(data map[string]interface{}, key string) float64 {
	f, _ := toFloat(data[key])
	return f
}

func getFloatPtr(data map[string]interface{}, key string) *float64 {
	f, ok := toFloat(data[key])
	if !ok {
		return nil
	}
	return &f
}

func getTime(data map[string]interface{}, key string) time.Time {
	t, _ := toTime(data[key])
	return t
}

func getStringSlice(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func getMap(data map[string]interface{}, key string) map[string]interface{} {
	m, _ := data[key].(map[string]interface{})
	return m
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// copyValue deep-copies maps and slices so stored documents never alias caller data.
func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string{}, val...)
	}
	return v
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}
