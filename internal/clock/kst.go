// Package clock holds the KST day-boundary arithmetic used by habit
// finalization. Every "day" in this service is a Korea Standard Time
// calendar day, computed by shifting UTC by +9h, truncating to midnight and
// shifting back; the resulting instants are stored and compared in UTC.
package clock

import "time"

const kstOffset = 9 * time.Hour

// DayStartUTC returns the UTC instant of KST midnight for the KST day
// containing t.
func DayStartUTC(t time.Time) time.Time {
	shifted := t.UTC().Add(kstOffset)
	day := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(-kstOffset)
}

// DaysAgo returns the KST day start n days before the day containing t.
func DaysAgo(t time.Time, n int) time.Time {
	return DayStartUTC(t).AddDate(0, 0, -n)
}

// SameDay reports whether a and b fall on the same KST calendar day.
func SameDay(a, b time.Time) bool {
	return DayStartUTC(a).Equal(DayStartUTC(b))
}
