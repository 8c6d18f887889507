package utils

import (
	"bytes"
	"fmt"
	"time"
)

// LocalDateTimeLayout is ISO 8601 without a zone offset.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// LocalDateTime marshals as "2006-01-02T15:04:05" and accepts either that
// form or RFC 3339 on input.
type LocalDateTime struct {
	time.Time
}

func FormatLocalDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(LocalDateTimeLayout)
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + FormatLocalDateTime(t.Time) + `"`), nil
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid datetime %s", data)
	}
	raw := string(data[1 : len(data)-1])
	for _, layout := range acceptedLayouts {
		var (
			parsed time.Time
			err    error
		)
		if layout == time.RFC3339Nano {
			parsed, err = time.Parse(layout, raw)
		} else {
			parsed, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q, expected %s", raw, LocalDateTimeLayout)
}

// Ptr returns nil for a zero value so callers can hand it to setters that
// ignore nil.
func (t *LocalDateTime) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
