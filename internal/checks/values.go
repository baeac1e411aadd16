package checks

import (
	"fmt"
	"strconv"
	"strings"
)

// rowNumber parses a numeric CSV cell; empty cells count as zero.
func rowNumber(row map[string]string, key string) (float64, error) {
	raw := strings.TrimSpace(row[key])
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return v, nil
}

// jsonNumber reads a numeric field from a decoded JSON object.
// Missing and null fields count as zero; numeric strings are accepted.
func jsonNumber(obj map[string]any, key string) (float64, error) {
	switch v := obj[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("field %q: unexpected type %T", key, v)
	}
}

// jsonString reads a field as display text, def when it is missing.
func jsonString(obj map[string]any, key, def string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return def
	}
	return formatValue(v)
}

// formatValue renders a decoded JSON scalar as it appeared in the artifact.
func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// formatFloat keeps one decimal for whole numbers, so 12 renders as "12.0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// qualifiedNames joins schemaname.relname for the first n rows.
func qualifiedNames(rows []map[string]string, n int) string {
	var names []string
	for i, r := range rows {
		if i == n {
			break
		}
		names = append(names, r["schemaname"]+"."+r["relname"])
	}
	return strings.Join(names, ", ")
}
