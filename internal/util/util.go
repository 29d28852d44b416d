package util

import (
	"fmt"
	"strconv"
	"time"
)

// Layouts of the persisted date and time strings.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// EmptyClock is shown in place of a missing time, such as a visitor who has not checked out.
const EmptyClock = "---"

// DateString formats t as "YYYY-MM-DD" in loc.
func DateString(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	return t.Format(DateLayout)
}

// ClockString formats t as "HH:MM" in loc.
func ClockString(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	return t.Format(ClockLayout)
}

// ValidDate reports whether s is a real calendar date written as "YYYY-MM-DD".
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)

	return err == nil
}

// ValidClock reports whether s is a 24-hour "HH:MM" time.
func ValidClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)

	return err == nil
}

// Format12Hour turns "14:05" into "2:05 PM". An empty string yields EmptyClock
// and anything unparseable is returned unchanged.
func Format12Hour(clock string) string {
	if clock == "" {
		return EmptyClock
	}
	if len(clock) < 4 || clock[len(clock)-3] != ':' {
		return clock
	}

	hour, err := strconv.Atoi(clock[:len(clock)-3])
	if err != nil || hour < 0 || hour > 23 {
		return clock
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}

	return fmt.Sprintf("%d:%s %s", h12, clock[len(clock)-2:], suffix)
}

// LongDate turns "2024-01-15" into "January 15, 2024". An empty string stays empty.
func LongDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}

	return t.Format("January 2, 2006")
}

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s").
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
