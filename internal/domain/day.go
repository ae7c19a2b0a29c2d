package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayState is the lifecycle state of a Day, derived purely from its fields.
type DayState string

const (
	// StateTemplate marks a reusable plan row (Date is nil).
	StateTemplate DayState = "template"
	// StatePending marks a dated instance that has not been started yet.
	StatePending DayState = "pending"
	// StateInProgress marks a started, unfinished session.
	StateInProgress DayState = "in_progress"
	// StateCompleted marks a session with both timestamps recorded.
	StateCompleted DayState = "completed"
	// StateMissed is a display-only refinement of StatePending for dated
	// instances whose date has already passed. It is never stored.
	StateMissed DayState = "missed"
)

// Day is one weekday row of a WeeklyRoutine. A nil Date means the row is the
// template for that weekday; a set Date means it is one concrete training
// occurrence.
type Day struct {
	ID        uuid.UUID  `json:"id"`
	RoutineID uuid.UUID  `json:"routineId"`
	DayName   string     `json:"dayName"` // "Monday" .. "Sunday"
	Date      *time.Time `json:"date,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	// IsCompleted is a denormalized convenience flag kept for listing queries.
	// The lifecycle state is derived from the timestamps alone; see State.
	IsCompleted bool      `json:"isCompleted"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// State classifies the day from field presence, first match wins:
// no date -> template, no start -> pending, no end -> in progress,
// both timestamps -> completed. IsCompleted is deliberately not consulted.
func (d *Day) State() DayState {
	switch {
	case d.Date == nil:
		return StateTemplate
	case d.StartTime == nil:
		return StatePending
	case d.EndTime == nil:
		return StateInProgress
	default:
		return StateCompleted
	}
}

// DisplayState is the UI-facing classification: identical to State except
// that a pending day dated strictly before today reads as missed.
func (d *Day) DisplayState(today time.Time) DayState {
	state := d.State()
	if state == StatePending && DateOnly(*d.Date).Before(DateOnly(today)) {
		return StateMissed
	}
	return state
}

// IsTemplate reports whether the day is a template row (no calendar date).
func (d *Day) IsTemplate() bool {
	return d.Date == nil
}
