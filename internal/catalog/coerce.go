package catalog

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one row as delivered by a catalog source, keyed by column name.
type RawRecord map[string]any

var blankRun = regexp.MustCompile(`[\s\p{Cc}]+`)

// cleanText collapses whitespace and control runs into one space and trims.
func cleanText(s string) string {
	return strings.TrimSpace(blankRun.ReplaceAllString(s, " "))
}

// first returns the value of the first present, non-nil key.
func (r RawRecord) first(keys ...string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

func (r RawRecord) text(keys ...string) string {
	v, _, ok := r.first(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return cleanText(t)
	case json.Number:
		return t.String()
	case float64, float32, int, int32, int64:
		if n, ok := asInt(t); ok {
			return strconv.FormatInt(n, 10)
		}
	}
	return ""
}

// asInt coerces numbers and numeric strings. Fractions are rounded.
func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float32:
		return roundFloat(float64(t))
	case float64:
		return roundFloat(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return roundFloat(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return roundFloat(f)
		}
	}
	return 0, false
}

func roundFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// price coerces a money field to non-negative cents; absent or malformed is 0.
func (r RawRecord) price(keys ...string) (int64, bool) {
	v, _, ok := r.first(keys...)
	if !ok {
		return 0, false
	}
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

func (r RawRecord) boolean(def bool, keys ...string) bool {
	v, _, ok := r.first(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	default:
		if n, ok := asInt(t); ok {
			return n != 0
		}
	}
	return def
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

func (r RawRecord) timestamp(keys ...string) time.Time {
	v, _, ok := r.first(keys...)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC()
			}
		}
	}
	return time.Time{}
}
