package models

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidRecord is returned by Validate for records that break the counter
// or stage invariants.
var ErrInvalidRecord = errors.New("invalid review record")

// ReviewRecord holds the learning statistics and schedule state for one item.
type ReviewRecord struct {
	TotalAttempts   int        `json:"totalAttempts"`
	CorrectAttempts int        `json:"correctAttempts"`
	WrongAttempts   int        `json:"wrongAttempts"`
	LastAttemptTime *time.Time `json:"lastAttemptTime"`
	ReviewStage     int        `json:"reviewStage"`
	NextReviewTime  *time.Time `json:"nextReviewTime"`
}

// Validate checks the record against a ladder of stageCount stages.
func (r *ReviewRecord) Validate(stageCount int) error {
	switch {
	case r == nil:
		return errors.Wrap(ErrInvalidRecord, "nil record")
	case r.TotalAttempts < 0, r.CorrectAttempts < 0, r.WrongAttempts < 0:
		return errors.Wrap(ErrInvalidRecord, "negative attempt count")
	case r.CorrectAttempts > r.TotalAttempts:
		return errors.Wrapf(ErrInvalidRecord, "%d correct of %d attempts", r.CorrectAttempts, r.TotalAttempts)
	case r.CorrectAttempts+r.WrongAttempts != r.TotalAttempts:
		return errors.Wrapf(ErrInvalidRecord, "%d correct and %d wrong do not add up to %d",
			r.CorrectAttempts, r.WrongAttempts, r.TotalAttempts)
	case r.ReviewStage < 0 || r.ReviewStage >= stageCount:
		return errors.Wrapf(ErrInvalidRecord, "stage %d outside 0..%d", r.ReviewStage, stageCount-1)
	}
	return nil
}

// Accuracy returns CorrectAttempts/TotalAttempts, or 0 for an unattempted record.
func (r *ReviewRecord) Accuracy() float64 {
	if r == nil || r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.CorrectAttempts) / float64(r.TotalAttempts)
}

// RecordStore maps item keys to their review records.
type RecordStore map[string]*ReviewRecord

// Get returns the record for key or nil when the item has never been answered.
func (s RecordStore) Get(key string) *ReviewRecord {
	if s == nil {
		return nil
	}
	return s[key]
}
