package models

import (
	"encoding/json"
	"testing"
)

func TestDateOnlyUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"2025-05-16"`, "2025-05-16"},
		{`"2025-05-16T10:30:00Z"`, "2025-05-16"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var d DateOnly
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("unmarshal %s = %q, want %q", tt.in, d.String(), tt.want)
		}
	}

	var d DateOnly
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Error("garbage date parsed without error")
	}
}

func TestDateOnlyUnmarshalKeepsZoneDay(t *testing.T) {
	// The calendar day belongs to the timestamp's own zone; 01:00 in +09:00
	// is still June 1 there even though it is May 31 in UTC.
	var d DateOnly
	if err := json.Unmarshal([]byte(`"2025-06-01T01:00:00+09:00"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2025-06-01" {
		t.Fatalf("day = %s, want 2025-06-01", d.String())
	}
}

func TestDateOnlyMarshal(t *testing.T) {
	b, err := json.Marshal(Date(2025, 5, 16))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-05-16"` {
		t.Fatalf("marshal = %s", b)
	}

	b, err = json.Marshal(DateOnly{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("marshal zero = %s, want null", b)
	}
}

func TestDateOnlyValue(t *testing.T) {
	v, err := Date(2025, 5, 16).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "2025-05-16" {
		t.Fatalf("value = %v, want string 2025-05-16", v)
	}

	v, err = DateOnly{}.Value()
	if err != nil || v != nil {
		t.Fatalf("zero value = (%v, %v), want (nil, nil)", v, err)
	}
}

func TestDateOnlyScan(t *testing.T) {
	var d DateOnly
	if err := d.Scan("2025-05-16"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2025-05-16" {
		t.Fatalf("scanned = %s", d.String())
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("scan nil should reset to zero")
	}
}
