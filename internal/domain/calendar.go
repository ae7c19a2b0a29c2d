package domain

import "time"

// WeekdayNames lists the seven day labels in routine order, Monday first.
// Every WeeklyRoutine carries exactly one template Day per entry.
var WeekdayNames = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOf returns the Monday of the calendar week containing t, at midnight.
// Go's time.Weekday counts Sunday as 0, so Sunday rolls back a full six days
// while every other day rolls back weekday-1 days.
func MondayOf(t time.Time) time.Time {
	day := DateOnly(t)
	if day.Weekday() == time.Sunday {
		return day.AddDate(0, 0, -6)
	}
	return day.AddDate(0, 0, -(int(day.Weekday()) - 1))
}
