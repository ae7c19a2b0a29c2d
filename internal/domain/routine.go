package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyRoutine is a named weekly plan owned by exactly one user.
// A routine founded from another one records its origin in CopiedFromID.
type WeeklyRoutine struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"ownerId"`
	Name         string     `json:"name"`
	IsTemplate   bool       `json:"isTemplate"`
	IsActive     bool       `json:"isActive"` // At most one active routine per owner
	Objective    string     `json:"objective,omitempty"`
	CopiedFromID *uuid.UUID `json:"copiedFromId,omitempty"`
	// WeekStartDate is set only on routines founded from a template and is
	// always the Monday of the week the routine was founded in.
	WeekStartDate *time.Time `json:"weekStartDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
