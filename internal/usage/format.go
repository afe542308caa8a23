package usage

import (
	"fmt"
	"strings"
	"time"
)

// ResetPeriod selects which window's reset timestamp the segment renders.
type ResetPeriod int

const (
	ResetPeriodSession ResetPeriod = iota
	ResetPeriodWeekly
)

func (p ResetPeriod) String() string {
	if p == ResetPeriodWeekly {
		return "weekly"
	}
	return "session"
}

// ParseResetPeriod parses configuration text case-insensitively. On
// unrecognized text it returns the default period and false so the
// caller can surface the rejected value.
func ParseResetPeriod(text string) (ResetPeriod, bool) {
	switch {
	case strings.EqualFold(text, "session"):
		return ResetPeriodSession, true
	case strings.EqualFold(text, "weekly"):
		return ResetPeriodWeekly, true
	}
	return ResetPeriodSession, false
}

// ResetFormat selects how the reset timestamp is rendered.
type ResetFormat int

const (
	ResetFormatTime ResetFormat = iota
	ResetFormatDuration
)

func (f ResetFormat) String() string {
	if f == ResetFormatDuration {
		return "duration"
	}
	return "time"
}

// ParseResetFormat follows the same contract as ParseResetPeriod.
func ParseResetFormat(text string) (ResetFormat, bool) {
	switch {
	case strings.EqualFold(text, "time"):
		return ResetFormatTime, true
	case strings.EqualFold(text, "duration"):
		return ResetFormatDuration, true
	}
	return ResetFormatTime, false
}

// circleIcons are the nerd-font circle-slice glyphs, one per eighth of
// the utilization range.
var circleIcons = [8]string{
	"\U000F0A9E", // circle_slice_1
	"\U000F0A9F", // circle_slice_2
	"\U000F0AA0", // circle_slice_3
	"\U000F0AA1", // circle_slice_4
	"\U000F0AA2", // circle_slice_5
	"\U000F0AA3", // circle_slice_6
	"\U000F0AA4", // circle_slice_7
	"\U000F0AA5", // circle_slice_8
}

// IconFor maps a utilization fraction in [0,1] onto one of eight glyphs.
// Values above 1.0 map to the top bucket.
func IconFor(fraction float64) string {
	percent := int(fraction * 100)
	switch {
	case percent <= 12:
		return circleIcons[0]
	case percent <= 25:
		return circleIcons[1]
	case percent <= 37:
		return circleIcons[2]
	case percent <= 50:
		return circleIcons[3]
	case percent <= 62:
		return circleIcons[4]
	case percent <= 75:
		return circleIcons[5]
	case percent <= 87:
		return circleIcons[6]
	}
	return circleIcons[7]
}

// FormatResetTime renders a reset timestamp as a compact local clock
// label, "month-day-hour" in 24-hour form. A local minute past 45 rounds
// up to the next hour so the label matches the hour the reset lands in.
// Absent or unparsable input renders "?".
func FormatResetTime(resetAt *string) string {
	if resetAt == nil {
		return "?"
	}
	t, err := time.Parse(time.RFC3339, *resetAt)
	if err != nil {
		return "?"
	}
	local := t.Local()
	if local.Minute() > 45 {
		local = local.Add(time.Hour)
	}
	return fmt.Sprintf("%d-%d-%d", int(local.Month()), local.Day(), local.Hour())
}

// FormatResetDuration renders the time remaining until reset as a human
// countdown: "Nd Nh" for a day or more, "Nh Nm" for an hour or more,
// otherwise "Nm". Anything under a minute away, including a reset already
// in the past, renders "now". Absent or unparsable input renders "?".
func FormatResetDuration(resetAt *string) string {
	return formatResetDurationAt(resetAt, time.Now())
}

func formatResetDurationAt(resetAt *string, now time.Time) string {
	if resetAt == nil {
		return "?"
	}
	t, err := time.Parse(time.RFC3339, *resetAt)
	if err != nil {
		return "?"
	}
	remaining := t.Sub(now)
	if remaining < time.Minute {
		return "now"
	}

	totalMinutes := int(remaining.Minutes())
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
