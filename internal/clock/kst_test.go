package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStartUTC(t *testing.T) {
	// 2026-03-10 20:00 UTC is already 2026-03-11 05:00 in KST
	at := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	got := DayStartUTC(at)

	// KST midnight of 2026-03-11 is 15:00 UTC the day before
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), got)
}

func TestDayStartUTC_BeforeBoundary(t *testing.T) {
	// 2026-03-10 10:00 UTC is 19:00 KST, still the KST day of 2026-03-10
	at := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	got := DayStartUTC(at)

	assert.Equal(t, time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC), got)
}

func TestDayStartUTC_Idempotent(t *testing.T) {
	at := time.Date(2026, 6, 1, 3, 30, 0, 0, time.UTC)
	day := DayStartUTC(at)
	assert.Equal(t, day, DayStartUTC(day))
}

func TestDaysAgo(t *testing.T) {
	at := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC), DaysAgo(at, 2))
	assert.Equal(t, DayStartUTC(at), DaysAgo(at, 0))
}

func TestSameDay(t *testing.T) {
	// both sides of KST midnight (15:00 UTC)
	before := time.Date(2026, 3, 10, 14, 59, 0, 0, time.UTC)
	after := time.Date(2026, 3, 10, 15, 1, 0, 0, time.UTC)

	assert.False(t, SameDay(before, after))
	assert.True(t, SameDay(after, after.Add(8*time.Hour)))
}
