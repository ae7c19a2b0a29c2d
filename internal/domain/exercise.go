package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is one entry of the exercise catalog that scheduled exercises
// reference by id.
type Exercise struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
