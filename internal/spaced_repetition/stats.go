package spaced_repetition

import (
	"time"

	"github.com/example/drillbot/pkg/models"
)

// Summary describes a learner's progress over one item universe.
type Summary struct {
	Total      int       // Items in the universe
	Seen       int       // Items with a record
	Due        int       // Items eligible now, unseen included
	Mastered   int       // Items on the last stage
	Attempts   int       // Answers across all records
	Accuracy   float64   // Correct answers / attempts, 0 without attempts
	NextReview time.Time // Earliest future review, zero if none
}

// Summarize computes a Summary for universe at now.
func Summarize(universe []models.Item, store models.RecordStore, now time.Time) Summary {
	sum := Summary{Total: len(universe)}
	correct := 0
	for _, item := range universe {
		rec := store.Get(item.Key)
		if IsEligible(rec, now) {
			sum.Due++
		}
		if rec == nil {
			continue
		}
		sum.Seen++
		sum.Attempts += rec.TotalAttempts
		correct += rec.CorrectAttempts
		if rec.ReviewStage == StageCount-1 {
			sum.Mastered++
		}
	}
	if sum.Attempts > 0 {
		sum.Accuracy = float64(correct) / float64(sum.Attempts)
	}
	if next, ok := EarliestReview(store, now); ok {
		sum.NextReview = next
	}
	return sum
}
