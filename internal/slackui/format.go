package slackui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTimestamp renders a date token the client localizes, with a UTC fallback.
func FormatTimestamp(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("<!date^%d^{time}|%s>", utc.Unix(), utc.Format("03:04 PM MST"))
}

// Truncate shortens text to max runes, cutting back to the last space.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if text == "" || len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// clip shortens text to max runes without looking for a word boundary.
func clip(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func durationMinutes(start time.Time, end *time.Time) string {
	if end == nil {
		return ""
	}
	return fmt.Sprintf(" (%d min)", int(end.Sub(start).Minutes()))
}

// truthy follows JSON value semantics: null, false, zero, and empty values are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
