package value

import (
	"fmt"
	"math"
	"time"

	"typecaster/options"
	"typecaster/primitive"
)

// DateLayout is the wire form of dates: UTC with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// maxEpochMillis bounds epoch timestamps to ±100,000,000 days.
const maxEpochMillis = 8.64e15

var dateInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders t as an ISO-8601 string in UTC with millisecond precision,
// e.g. "2021-10-19T00:22:58.257Z".
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses the ISO-8601 forms accepted on input. Strings without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateInputLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date", primitive.ErrNotConvertible, s)
}

// FromEpochMillis converts milliseconds since the Unix epoch into a UTC time.
func FromEpochMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// AsDate coerces v into a time.Time: ISO strings need options.CategoryDatetime,
// epoch milliseconds need options.CategoryTimestamp.
func AsDate(v any, allowed options.CategoryEnum) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x != nil {
			return *x, nil
		}
	case string:
		if allowed.Has(options.CategoryDatetime) {
			return ParseDate(x)
		}
	default:
		if !allowed.Has(options.CategoryTimestamp) {
			break
		}

		ms, err := primitive.Number(v, options.CategoryNone)
		if err != nil {
			break
		}

		if math.Abs(ms) > maxEpochMillis {
			return time.Time{}, fmt.Errorf("%w: %v ms is outside the Date range", primitive.ErrNotConvertible, ms)
		}

		return FromEpochMillis(ms), nil
	}

	return time.Time{}, fmt.Errorf("%w: %T to Date", primitive.ErrNotConvertible, v)
}
