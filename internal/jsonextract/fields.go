package jsonextract

import "strings"

// String returns the trimmed string under key, or "" when missing or of
// another type.
func String(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// Strings returns the array of strings under key, dropping blanks and
// non-string elements.
func Strings(obj map[string]any, key string) []string {
	items, _ := obj[key].([]any)
	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Float returns the number under key, or fallback when missing or of another
// type.
func Float(obj map[string]any, key string, fallback float64) float64 {
	if f, ok := obj[key].(float64); ok {
		return f
	}
	return fallback
}

// Objects returns the array of objects under key.
func Objects(obj map[string]any, key string) []map[string]any {
	items, _ := obj[key].([]any)
	var out []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
