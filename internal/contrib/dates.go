// Package contrib turns daily contribution counts into a game grid.
// It depends on game but game does not depend on contrib.
package contrib

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for every Day.
const DateLayout = "2006-01-02"

// WindowDays is the length of the contribution window.
const WindowDays = 365

// Midnight truncates t to 00:00 UTC of its calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Anchor returns the date WindowDays before now, which becomes week 0.
func Anchor(now time.Time) time.Time {
	return Midnight(now).AddDate(0, 0, -WindowDays)
}

// ParseDate parses an ISO date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("contrib: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayOfWeek returns 0 for Sunday through 6 for Saturday.
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// DaysBetween returns the whole days from anchor to date, negative when date
// is earlier.
func DaysBetween(anchor, date time.Time) int {
	return int(Midnight(date).Sub(Midnight(anchor)).Hours() / 24)
}

// WeekOffset is floor(days(date - anchor) / 7).
func WeekOffset(date, anchor time.Time) int {
	return floorDiv(DaysBetween(anchor, date), 7)
}

// Last365Days lists the WindowDays dates starting at the anchor, oldest first.
func Last365Days(now time.Time) []string {
	start := Anchor(now)
	dates := make([]string, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		dates = append(dates, FormatDate(start.AddDate(0, 0, i)))
	}
	return dates
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
