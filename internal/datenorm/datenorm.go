// Package datenorm turns the date representations found in stored documents
// (native time values, database timestamps, ISO strings, epoch milliseconds)
// into a single canonical time.Time.
package datenorm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the calendar-day form used for date-only fields.
const DayLayout = "2006-01-02"

// maxEpochMillis bounds epoch-millisecond values to +/-100,000,000 days.
const maxEpochMillis = 8.64e15

// Timestamp is a database-native timestamp: whole seconds since the Unix
// epoch plus a nanosecond remainder.
type Timestamp struct {
	Seconds     int64 `json:"seconds" bson:"seconds"`
	Nanoseconds int32 `json:"nanoseconds" bson:"nanoseconds"`
}

// FromTime converts t into a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// Time returns the instant the timestamp represents, in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds)).UTC()
}

// timeLike matches driver-specific datetime values (e.g. bson.DateTime).
type timeLike interface {
	Time() time.Time
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

var dayLayouts = []string{
	DayLayout,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// Parse converts raw into a UTC instant. Date-only strings are anchored at
// midnight in loc (UTC when loc is nil). The second result is false when
// raw has no valid date interpretation; Parse never panics.
func Parse(raw any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return checked(v)
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return checked(*v)
	case Timestamp:
		return fromPair(float64(v.Seconds), float64(v.Nanoseconds))
	case *Timestamp:
		if v == nil {
			return time.Time{}, false
		}
		return fromPair(float64(v.Seconds), float64(v.Nanoseconds))
	case string:
		return parseString(v, loc)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(f)
	case float64:
		return fromMillis(v)
	case float32:
		return fromMillis(float64(v))
	case int:
		return fromMillis(float64(v))
	case int32:
		return fromMillis(float64(v))
	case int64:
		return fromMillis(float64(v))
	case uint32:
		return fromMillis(float64(v))
	case uint64:
		return fromMillis(float64(v))
	case map[string]any:
		return fromTimestampLike(v)
	case timeLike:
		return checked(v.Time())
	}

	return time.Time{}, false
}

// ParseDay parses a calendar date ("2006-01-02", surrounding whitespace
// ignored) as midnight in loc. A full timestamp such as the
// "1986-07-20T18:30:00.000Z" browsers send is reduced to its day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err == nil {
		return t, nil
	}
	for _, layout := range instantLayouts {
		if ts, perr := time.ParseInLocation(layout, s, loc); perr == nil {
			if ts, ok := checked(ts); ok {
				y, m, d := ts.In(loc).Date()
				return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
			}
		}
	}
	return time.Time{}, err
}

// Day renders t as a calendar day in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

func checked(t time.Time) (time.Time, bool) {
	if t.IsZero() || t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return checked(time.UnixMilli(int64(ms)))
}

func fromPair(seconds, nanos float64) (time.Time, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || math.IsNaN(nanos) || math.IsInf(nanos, 0) {
		return time.Time{}, false
	}
	if math.Abs(seconds) > maxEpochMillis/1000 || nanos < 0 || nanos >= 1e9 {
		return time.Time{}, false
	}
	return checked(time.Unix(int64(seconds), int64(nanos)))
}

// fromTimestampLike accepts plain objects shaped like a Timestamp, as
// produced when a timestamp passes through a JSON transport.
func fromTimestampLike(m map[string]any) (time.Time, bool) {
	seconds, ok := number(m["seconds"])
	if !ok {
		return time.Time{}, false
	}
	nanos, ok := number(m["nanoseconds"])
	if !ok {
		return time.Time{}, false
	}
	return fromPair(seconds, nanos)
}

func number(v any) (float64, bool) {
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
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return checked(t)
		}
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return checked(t)
		}
	}

	// Epoch milliseconds that were stringified on the way in.
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return fromMillis(ms)
	}

	return time.Time{}, false
}

// Normalizer applies Parse to fields of stored records and reports the
// values it had to discard.
type Normalizer struct {
	loc       *time.Location
	logger    *slog.Logger
	onFailure func(field string)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFailureHook registers fn to be called with the field name of every
// value that could not be normalized.
func WithFailureHook(fn func(field string)) Option {
	return func(n *Normalizer) {
		n.onFailure = fn
	}
}

// NewNormalizer builds a Normalizer that anchors date-only strings in loc.
func NewNormalizer(loc *time.Location, logger *slog.Logger, opts ...Option) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{loc: loc, logger: logger}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Location returns the zone used for calendar-day values.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize converts the raw value of field on record recordID. Failures
// are logged with the raw value and reported as ok=false.
func (n *Normalizer) Normalize(raw any, field, recordID string) (time.Time, bool) {
	t, ok := Parse(raw, n.loc)
	if ok {
		return t, true
	}

	n.logger.Warn("unrepresentable date value",
		"field", field,
		"record_id", recordID,
		"raw", describe(raw),
		"raw_type", fmt.Sprintf("%T", raw),
	)
	if n.onFailure != nil {
		n.onFailure(field)
	}
	return time.Time{}, false
}

func describe(raw any) string {
	if raw == nil {
		return "<nil>"
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return string(b)
}
