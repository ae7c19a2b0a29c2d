package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledExercise places a catalog exercise on a specific Day with an
// explicit execution order.
type ScheduledExercise struct {
	ID         uuid.UUID `json:"id"`
	DayID      uuid.UUID `json:"dayId"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	OrderIndex int       `json:"orderIndex"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Set is one planned or performed set of a scheduled exercise. Reps and
// Weight are independently nullable: a template placeholder has neither, a
// partially logged set may have one.
type Set struct {
	ID                  uuid.UUID `json:"id"`
	ScheduledExerciseID uuid.UUID `json:"scheduledExerciseId"`
	// SetNumber is 1-based and unique within the parent exercise. It grows
	// with insertion order and may be non-contiguous after deletions.
	SetNumber   int       `json:"setNumber"`
	Reps        *int      `json:"reps,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	RPE         *float64  `json:"rpe,omitempty"`
	RestSeconds *int      `json:"restSeconds,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Volume is the set's contribution to session tonnage, zero when either
// reps or weight is missing.
func (s *Set) Volume() float64 {
	if s.Reps == nil || s.Weight == nil {
		return 0
	}
	return float64(*s.Reps) * *s.Weight
}
