package domain

import (
	"math"
	"time"
)

// MinDisplayedDurationMinutes is the floor below which summary views treat a
// session as noise (an accidental start/stop) and show no duration.
const MinDisplayedDurationMinutes = 5

// ComputeDurationMinutes returns the session length in whole minutes, rounded
// to nearest, or nil when either timestamp is absent. It makes no judgement
// about plausibility; see DisplayDurationMinutes for the summary-view policy.
func ComputeDurationMinutes(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	minutes := int(math.Round(end.Sub(*start).Seconds() / 60))
	return &minutes
}

// DisplayDurationMinutes applies the summary-view filter on top of
// ComputeDurationMinutes: durations under MinDisplayedDurationMinutes are
// suppressed (nil) rather than shown.
func DisplayDurationMinutes(start, end *time.Time) *int {
	minutes := ComputeDurationMinutes(start, end)
	if minutes == nil || *minutes < MinDisplayedDurationMinutes {
		return nil
	}
	return minutes
}
