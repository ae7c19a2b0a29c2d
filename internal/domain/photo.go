package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressPhoto stores metadata about a progress picture. The binary itself
// lives in object storage under ObjectKey.
type ProgressPhoto struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	ObjectKey   string     `json:"-"` // Bucket path, internal use only
	FileName    string     `json:"fileName"`
	ContentType string     `json:"contentType"`
	TakenAt     *time.Time `json:"takenAt,omitempty"`
	UploadedAt  time.Time  `json:"uploadedAt"`
}
