package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMondayOf_EveryWeekday(t *testing.T) {
	// 2024-03-04 is a Monday; walk the full week around it.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		today := monday.AddDate(0, 0, offset)
		got := MondayOf(today)

		assert.Equal(t, time.Monday, got.Weekday(), "weekday of %s", today.Weekday())
		// Monday <= today <= following Sunday
		assert.False(t, today.Before(got), "today %s before its Monday", today)
		assert.False(t, today.After(got.AddDate(0, 0, 6)), "today %s after its Sunday", today)
	}
}

func TestMondayOf_SundayRollsBackSixDays(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	got := MondayOf(sunday)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestMondayOf_MondayIsIdentity(t *testing.T) {
	monday := time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), MondayOf(monday))
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 3, 4, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
