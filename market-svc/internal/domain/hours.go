package domain

import (
	"fmt"
	"time"
)

// OpeningHour is one weekly opening window. DayOfWeek counts from Monday=0
// to Sunday=6; times are "HH:MM" in the restaurant's local time.
type OpeningHour struct {
	ID           int
	RestaurantID int
	DayOfWeek    int
	OpenTime     string
	CloseTime    string
}

// Weekday converts a time.Weekday (Sunday=0) to the Monday=0 convention.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock parses an HH:MM time of day into minutes past midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Covers reports whether the window is open at t. Windows that close before
// they open run past midnight into the following day.
func (h OpeningHour) Covers(t time.Time) bool {
	open, err := ParseClock(h.OpenTime)
	if err != nil {
		return false
	}
	closing, err := ParseClock(h.CloseTime)
	if err != nil {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	day := Weekday(t)

	if closing > open {
		return day == h.DayOfWeek && minute >= open && minute < closing
	}
	if day == h.DayOfWeek && minute >= open {
		return true
	}
	return day == (h.DayOfWeek+1)%7 && minute < closing
}

func IsOpen(hours []OpeningHour, t time.Time) bool {
	for _, h := range hours {
		if h.Covers(t) {
			return true
		}
	}
	return false
}
