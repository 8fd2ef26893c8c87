package dates

import (
	"testing"
	"time"
)

func TestParseISOWithZuluOffset(t *testing.T) {
	got, ok := Parse("2024-03-15T14:30:00Z")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseISOStripsNumericOffset(t *testing.T) {
	// The offset is dropped, not converted: 14:30+05:00 stays 14:30.
	got, ok := Parse("2024-03-15T14:30:00+05:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("offset was converted instead of stripped: got %v", got)
	}
}

func TestParseISOStripsNegativeOffset(t *testing.T) {
	// A '-' after the T starts an offset; the ones in the date part do not.
	got, ok := Parse("2024-01-02T10:00:00-05:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseFallbackLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-15 14:30:00", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2024 14:30:00", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := Parse(c.raw)
		if !ok {
			t.Errorf("Parse(%q) failed", c.raw)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestParseUnparseableFallsBackToNow(t *testing.T) {
	before := time.Now()
	got, ok := Parse("not a date")
	after := time.Now()

	if ok {
		t.Error("expected ok=false for garbage input")
	}
	if got.Before(before) || got.After(after) {
		t.Errorf("fallback time %v outside [%v, %v]", got, before, after)
	}
}

func TestParseEmptyFallsBackToNow(t *testing.T) {
	if _, ok := Parse(""); ok {
		t.Error("expected ok=false for empty input")
	}
	if _, ok := Parse("   "); ok {
		t.Error("expected ok=false for blank input")
	}
}

func TestDayKeyAndSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	if DayKey(morning) != "2024-03-15" {
		t.Errorf("DayKey = %s", DayKey(morning))
	}
	if !SameDay(morning, evening) {
		t.Error("same calendar day reported as different")
	}
	if SameDay(evening, nextDay) {
		t.Error("different days reported as same")
	}
	if !Day(evening).Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day = %v", Day(evening))
	}
}
