package market

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Values at or above this are treated as epoch milliseconds. 1e11 seconds is
// far beyond any bar we will see, while 1e11 ms is early 1973.
const millisThreshold = 100_000_000_000

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts a provider timestamp into epoch seconds. It accepts
// epoch seconds, epoch milliseconds (numeric or numeric string), ISO8601
// dates and ISO8601 datetimes. Zone-less datetimes are read in loc (UTC when nil).
func ParseTimestamp(v gjson.Result, loc *time.Location) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		return fromEpoch(v.Int())
	case gjson.String:
		return ParseTimestampString(v.Str, loc)
	default:
		return 0, false
	}
}

// ParseTimestampString is ParseTimestamp for raw strings.
func ParseTimestampString(raw string, loc *time.Location) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n)
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range isoLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

func fromEpoch(n int64) (int64, bool) {
	if n <= 0 {
		return 0, false
	}
	if n >= millisThreshold {
		return n / 1000, true
	}
	return n, true
}
