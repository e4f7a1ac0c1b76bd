package spaced_repetition

import (
	"time"

	"github.com/example/drillbot/pkg/models"
)

// RecorderConfig controls how the next review time is computed.
type RecorderConfig struct {
	// AccuracyAware halves the stage interval while the item's lifetime
	// accuracy is below the stage requirement.
	AccuracyAware bool
}

// DefaultRecorderConfig enables accuracy-aware intervals.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{AccuracyAware: true}
}

// Recorder applies answer outcomes to review records.
type Recorder struct {
	cfg   RecorderConfig
	clock Clock
}

// NewRecorder creates a Recorder. A nil clock uses the wall clock.
func NewRecorder(cfg RecorderConfig, clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Recorder{cfg: cfg, clock: clock}
}

// RecordOutcome updates the record for item in store and schedules its next
// review. The record is created on the first answer. The returned pointer is
// the record held by store.
func (r *Recorder) RecordOutcome(store models.RecordStore, item models.Item, isCorrect bool) *models.ReviewRecord {
	now := r.clock.Now()

	rec := store[item.Key]
	if rec == nil {
		rec = &models.ReviewRecord{}
		store[item.Key] = rec
	}

	rec.TotalAttempts++
	if isCorrect {
		rec.CorrectAttempts++
		if rec.ReviewStage < StageCount-1 {
			rec.ReviewStage++
		}
	} else {
		rec.WrongAttempts++
		if rec.ReviewStage > 0 {
			rec.ReviewStage--
		}
	}
	rec.ReviewStage = clampStage(rec.ReviewStage)

	last := now
	rec.LastAttemptTime = &last

	next := now.Add(r.NextInterval(rec))
	rec.NextReviewTime = &next
	return rec
}

// NextInterval returns the gap until the next review of rec at its current stage.
func (r *Recorder) NextInterval(rec *models.ReviewRecord) time.Duration {
	interval := Intervals[clampStage(rec.ReviewStage)]
	if r.cfg.AccuracyAware && !IsAccuracyMet(rec.ReviewStage, rec.CorrectAttempts, rec.TotalAttempts) {
		interval /= 2
	}
	if interval < MinInterval {
		interval = MinInterval
	}
	return interval
}
