package plans

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// ISOLayout is the canonical wire/display form of a normalized timestamp.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// dayLayout is what the pending-change descriptions print.
const dayLayout = "2006-01-02"

// Layouts tried in order for string dates. Inputs without a zone are UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	dayLayout,
}

// NormalizeDate converts a date of unknown shape into a UTC timestamp.
//
// The billing service emits both ISO strings and tuple-encoded dates
// ([year, month, day, hour?, minute?, second?] with a 1-based month).
// Anything empty, unparseable, out of range or of another shape yields nil.
// Already-normalized values (time.Time or the ISOLayout string) come back
// unchanged.
func NormalizeDate(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		u := v.UTC()
		return &u
	case *time.Time:
		if v == nil {
			return nil
		}
		return NormalizeDate(*v)
	case string:
		return parseDateString(v)
	case *string:
		if v == nil {
			return nil
		}
		return parseDateString(*v)
	case json.RawMessage:
		return normalizeRaw(v)
	case []any:
		parts := make([]float64, 0, len(v))
		for _, p := range v {
			f, ok := toFloat(p)
			if !ok {
				return nil
			}
			parts = append(parts, f)
		}
		return fromTuple(parts)
	case []float64:
		return fromTuple(v)
	case []int:
		return fromTuple(intsToFloats(v))
	case []int64:
		return fromTuple(intsToFloats(v))
	}
	return nil
}

// FormatDate renders t in ISOLayout. A nil time renders as "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

func normalizeRaw(b json.RawMessage) *time.Time {
	if len(b) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return NormalizeDate(v)
}

func fromTuple(parts []float64) *time.Time {
	if len(parts) < 3 {
		return nil
	}
	var c [6]int
	for i := 0; i < len(c) && i < len(parts); i++ {
		f := parts[i]
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil
		}
		c[i] = int(f)
	}
	year, month, day, hour, minute, second := c[0], c[1], c[2], c[3], c[4], c[5]
	if month < 1 || month > 12 || day < 1 || hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 || second < 0 || second > 59 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date rolls 2024-02-31 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return nil
	}
	return &t
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func intsToFloats[T int | int64](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
