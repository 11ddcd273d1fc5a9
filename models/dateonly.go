package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly wraps time.Time so we can control both
// JSON un/marshaling and SQL driver encoding for DATE columns.
type DateOnly time.Time

// UnmarshalJSON lets us parse either a bare date ("2025-05-16")
// or a full RFC3339 timestamp, keeping only the date part.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = DateOnly(time.Time{})
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = DateOnly(t)
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("DateOnly.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	// Keep the timestamp's own calendar day; truncating in absolute time
	// would shift dates across the zone offset.
	*d = DateOnly(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
	return nil
}

// MarshalJSON always emits the bare date form.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(t.Format(dateLayout))
}

// Value implements driver.Valuer so GORM stores DateOnly as a
// "YYYY-MM-DD" string, which keeps range comparisons lexicographic.
func (d DateOnly) Value() (driver.Value, error) {
	t := time.Time(d)
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(dateLayout), nil
}

// Scan implements sql.Scanner so GORM can read DATE columns back.
func (d *DateOnly) Scan(src interface{}) error {
	if src == nil {
		*d = DateOnly(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*d = DateOnly(v)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("DateOnly.Scan: unsupported type %T", src)
	}
}

func (d *DateOnly) parse(s string) error {
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = DateOnly(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("DateOnly: parse %q: %w", s, err)
	}
	*d = DateOnly(t)
	return nil
}

// Time returns the underlying time.Time.
func (d DateOnly) Time() time.Time { return time.Time(d) }

// IsZero reports whether the date is unset.
func (d DateOnly) IsZero() bool { return time.Time(d).IsZero() }

// String returns the "YYYY-MM-DD" form, or "" when unset.
func (d DateOnly) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(dateLayout)
}

// Date builds a DateOnly from a calendar day.
func Date(year int, month time.Month, day int) DateOnly {
	return DateOnly(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
