package service

import (
	"github.com/google/uuid"
)

// CopyFailure records one child row that could not be copied during a deep
// copy. The overall operation still succeeds; failed children are skipped.
type CopyFailure struct {
	Kind     string    `json:"kind"` // "day", "exercise" or "set"
	SourceID uuid.UUID `json:"sourceId"`
	Reason   string    `json:"reason"`
}

// CopyReport aggregates the outcome of a deep-copy operation so callers can
// surface partial failure instead of it being silently discarded.
type CopyReport struct {
	DaysCopied      int           `json:"daysCopied"`
	ExercisesCopied int           `json:"exercisesCopied"`
	SetsCopied      int           `json:"setsCopied"`
	Failures        []CopyFailure `json:"failures,omitempty"`
}

func (r *CopyReport) addFailure(kind string, sourceID uuid.UUID, err error) {
	r.Failures = append(r.Failures, CopyFailure{Kind: kind, SourceID: sourceID, Reason: err.Error()})
}

// FailureCount returns the number of children that were skipped.
func (r *CopyReport) FailureCount() int {
	return len(r.Failures)
}
