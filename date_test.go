package folio

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 10 {
		t.Errorf("ParseDate() = %v", d)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("String() = %q, want 2025-03-10", d.String())
	}

	if _, err := ParseDate("10/03/2025"); err == nil {
		t.Error("ParseDate() accepted a non-ISO date")
	}
}

func TestDate_AddNormalizes(t *testing.T) {
	d := NewDate(2025, time.January, 30)
	if got := d.Add(5).String(); got != "2025-02-04" {
		t.Errorf("Add(5) = %s, want 2025-02-04", got)
	}
	if got := d.Add(-30).String(); got != "2024-12-31" {
		t.Errorf("Add(-30) = %s, want 2024-12-31", got)
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.January, 10)
	b := NewDate(2025, time.January, 11)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before() inconsistent")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After() inconsistent")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a day compares against itself")
	}
}

func TestDate_IsZero(t *testing.T) {
	var zero Date
	if !zero.IsZero() {
		t.Error("zero value not reported as zero")
	}
	if Today().IsZero() {
		t.Error("Today() reported as zero")
	}
}

func TestDate_JSONRoundtrip(t *testing.T) {
	d := MustParseDate("2025-03-10")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(b) != `"2025-03-10"` {
		t.Errorf("Marshal() = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if back != d {
		t.Errorf("roundtrip = %v, want %v", back, d)
	}
}
