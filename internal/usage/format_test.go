package usage

import (
	"fmt"
	"testing"
	"time"
)

func TestIconForBucketsAreMonotonic(t *testing.T) {
	lastIndex := -1
	for percent := 0; percent <= 120; percent++ {
		icon := IconFor(float64(percent) / 100)
		index := -1
		for i, candidate := range circleIcons {
			if candidate == icon {
				index = i
				break
			}
		}
		if index < 0 {
			t.Fatalf("icon for %d%% is not in the glyph table", percent)
		}
		if index < lastIndex {
			t.Fatalf("bucket index decreased at %d%%: %d -> %d", percent, lastIndex, index)
		}
		lastIndex = index
	}
}

func TestIconForBucketBoundaries(t *testing.T) {
	cases := []struct {
		fraction float64
		want     int
	}{
		{0.0, 0},
		{0.12, 0},
		{0.13, 1},
		{0.25, 1},
		{0.26, 2},
		{0.37, 2},
		{0.38, 3},
		{0.50, 3},
		{0.51, 4},
		{0.62, 4},
		{0.63, 5},
		{0.75, 5},
		{0.76, 6},
		{0.87, 6},
		{0.88, 7},
		{1.00, 7},
		{1.07, 7},
	}
	for _, c := range cases {
		if got := IconFor(c.fraction); got != circleIcons[c.want] {
			t.Fatalf("IconFor(%v): expected bucket %d", c.fraction, c.want)
		}
	}
}

func TestFormatResetTimeRoundsUpPastMinute45(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 50, 0, 0, time.Local).Format(time.RFC3339)
	got := FormatResetTime(&at)
	if got != "3-14-11" {
		t.Fatalf("expected 3-14-11, got %s", got)
	}
}

func TestFormatResetTimeKeepsLiteralHourAtOrBeforeMinute45(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 45, 0, 0, time.Local).Format(time.RFC3339)
	got := FormatResetTime(&at)
	if got != "3-14-10" {
		t.Fatalf("expected 3-14-10, got %s", got)
	}
}

func TestFormatResetTimeUnknownInput(t *testing.T) {
	if got := FormatResetTime(nil); got != "?" {
		t.Fatalf("expected ? for nil, got %s", got)
	}
	bad := "not-a-timestamp"
	if got := FormatResetTime(&bad); got != "?" {
		t.Fatalf("expected ? for unparsable input, got %s", got)
	}
}

func TestFormatResetDurationBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		offset time.Duration
		want   string
	}{
		{30 * time.Second, "now"},
		{-5 * time.Minute, "now"},
		{90 * time.Minute, "1h 30m"},
		{50 * time.Hour, "2d 2h"},
		{45 * time.Minute, "45m"},
		{time.Minute, "1m"},
	}
	for _, c := range cases {
		at := now.Add(c.offset).Format(time.RFC3339)
		if got := formatResetDurationAt(&at, now); got != c.want {
			t.Fatalf("offset %s: expected %q, got %q", c.offset, c.want, got)
		}
	}
}

func TestFormatResetDurationUnknownInput(t *testing.T) {
	if got := FormatResetDuration(nil); got != "?" {
		t.Fatalf("expected ? for nil, got %s", got)
	}
	bad := "soon"
	if got := FormatResetDuration(&bad); got != "?" {
		t.Fatalf("expected ? for unparsable input, got %s", got)
	}
}

func TestParseResetPeriodIsCaseInsensitive(t *testing.T) {
	cases := []struct {
		text string
		want ResetPeriod
	}{
		{"session", ResetPeriodSession},
		{"SESSION", ResetPeriodSession},
		{"Weekly", ResetPeriodWeekly},
		{"weekly", ResetPeriodWeekly},
	}
	for _, c := range cases {
		got, ok := ParseResetPeriod(c.text)
		if !ok || got != c.want {
			t.Fatalf("ParseResetPeriod(%q) = (%v, %v), expected (%v, true)", c.text, got, ok, c.want)
		}
	}
}

func TestParseResetPeriodRejectsUnknownText(t *testing.T) {
	got, ok := ParseResetPeriod("monthly")
	if ok {
		t.Fatalf("expected monthly to be rejected")
	}
	if got != ResetPeriodSession {
		t.Fatalf("expected default session on rejection, got %v", got)
	}
}

func TestParseResetFormat(t *testing.T) {
	if got, ok := ParseResetFormat("DURATION"); !ok || got != ResetFormatDuration {
		t.Fatalf("expected duration, got (%v, %v)", got, ok)
	}
	if got, ok := ParseResetFormat("time"); !ok || got != ResetFormatTime {
		t.Fatalf("expected time, got (%v, %v)", got, ok)
	}
	if got, ok := ParseResetFormat("calendar"); ok || got != ResetFormatTime {
		t.Fatalf("expected rejection with time default, got (%v, %v)", got, ok)
	}
}

func TestResetEnumStrings(t *testing.T) {
	pairs := []struct {
		got  fmt.Stringer
		want string
	}{
		{ResetPeriodSession, "session"},
		{ResetPeriodWeekly, "weekly"},
		{ResetFormatTime, "time"},
		{ResetFormatDuration, "duration"},
	}
	for _, p := range pairs {
		if p.got.String() != p.want {
			t.Fatalf("expected %q, got %q", p.want, p.got.String())
		}
	}
}
