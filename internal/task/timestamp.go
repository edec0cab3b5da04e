package task

import (
	"fmt"
	"time"
)

const (
	timestampLayout       = "2006-01-02T15:04:05"
	timestampLayoutMicros = "2006-01-02T15:04:05.000000"
)

// Timestamp is a local wall-clock time encoded without a zone offset.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to local time at microsecond precision, which is
// what survives an encode/decode round trip.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Microsecond)}
}

// ParseTimestamp parses an ISO-8601 local timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	// The bare layout also accepts a trailing fractional second.
	t, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

func (ts Timestamp) String() string {
	if ts.Nanosecond()/int(time.Microsecond) == 0 {
		return ts.Format(timestampLayout)
	}
	return ts.Format(timestampLayoutMicros)
}

// MarshalText implements encoding.TextMarshaler.
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ts *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON overrides the RFC 3339 encoding promoted from time.Time.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

// UnmarshalJSON overrides the RFC 3339 decoding promoted from time.Time.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", data)
	}
	return ts.UnmarshalText(data[1 : len(data)-1])
}
