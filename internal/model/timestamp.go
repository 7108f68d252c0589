package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

var dateLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
	{"2006/01/02", false},
	{"01/02/2006", false},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"2 January 2006", false},
	{"2 Jan 2006", false},
	{time.RFC1123, true},
	{time.RFC1123Z, true},
	{"2006-01", false},
}

// ParseDate parses the date shapes seen in stored records. Values without
// a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	return ParseDateIn(s, time.UTC)
}

// ParseDateIn is ParseDate with zone-less values read as wall-clock time in loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, bool) {
	t, _, ok := parseDate(s, loc)
	return t, ok
}

func parseDate(s string, loc *time.Location) (time.Time, bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, !l.zoned, true
		}
	}
	return time.Time{}, false, false
}

// Timestamp is a point in time decoded from any of the stored shapes:
// an RFC3339 or date-only string, epoch milliseconds, or a
// {seconds, nanoseconds} object. Unreadable input decodes to the zero value.
type Timestamp struct {
	time.Time
	// floating 表示原始字符串没有时区，Time 中的 UTC 只是占位
	floating bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

type secondsObject struct {
	Seconds      *float64 `json:"seconds"`
	Nanoseconds  float64  `json:"nanoseconds"`
	USeconds     *float64 `json:"_seconds"`
	UNanoseconds float64  `json:"_nanoseconds"`
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		if parsed, floating, ok := parseDate(decodeString(data), time.UTC); ok {
			t.Time, t.floating = parsed, floating
		}
	case '{':
		var obj secondsObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		switch {
		case obj.Seconds != nil:
			t.Time = fromSeconds(*obj.Seconds, obj.Nanoseconds)
		case obj.USeconds != nil:
			t.Time = fromSeconds(*obj.USeconds, obj.UNanoseconds)
		}
	default:
		var ms float64
		if err := json.Unmarshal(data, &ms); err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return nil
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

// In returns the instant in loc. A value written without a zone keeps its
// calendar fields and is placed in loc instead of being converted.
func (t Timestamp) In(loc *time.Location) time.Time {
	if t.IsZero() || !t.floating {
		return t.Time.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func fromSeconds(sec, nsec float64) time.Time {
	return time.Unix(int64(sec), int64(nsec)).UTC()
}
