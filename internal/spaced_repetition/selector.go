package spaced_repetition

import (
	"math/rand"
	"time"

	"github.com/example/drillbot/pkg/models"
)

// Selector picks the next item to present with a weighted random draw over the
// items that are due.
type Selector struct {
	weights WeightConfig
	clock   Clock
	rng     RandomSource
}

// NewSelector creates a Selector. A nil clock uses the wall clock and a nil
// rng uses a time-seeded source.
func NewSelector(weights WeightConfig, clock Clock, rng RandomSource) *Selector {
	if clock == nil {
		clock = SystemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{weights: weights, clock: clock, rng: rng}
}

// IsEligible reports whether an item with record rec may be presented at now.
// Unseen items and records without a scheduled review are always eligible.
func IsEligible(rec *models.ReviewRecord, now time.Time) bool {
	return rec == nil || rec.NextReviewTime == nil || !now.Before(*rec.NextReviewTime)
}

// SelectNext draws the next item from universe. The second result is false
// when nothing is due, in which case the caller should rest.
func (s *Selector) SelectNext(universe []models.Item, store models.RecordStore) (models.Item, bool) {
	now := s.clock.Now()

	type candidate struct {
		item   models.Item
		weight float64
	}
	var eligible []candidate
	total := 0.0
	for _, item := range universe {
		rec := store.Get(item.Key)
		if !IsEligible(rec, now) {
			continue
		}
		w := Weight(s.weights, rec, now)
		eligible = append(eligible, candidate{item: item, weight: w})
		total += w
	}

	if len(eligible) == 0 {
		return models.Item{}, false
	}
	if total <= 0 {
		return eligible[0].item, true
	}

	r := s.rng.Float64() * total
	for _, c := range eligible {
		r -= c.weight
		if r <= 0 {
			return c.item, true
		}
	}
	// Rounding can leave r slightly above zero after the last item.
	return eligible[0].item, true
}

// DueItems returns the items of universe that are eligible at now, in order.
func DueItems(universe []models.Item, store models.RecordStore, now time.Time) []models.Item {
	var due []models.Item
	for _, item := range universe {
		if IsEligible(store.Get(item.Key), now) {
			due = append(due, item)
		}
	}
	return due
}

// EarliestReview returns the earliest NextReviewTime after now across store.
func EarliestReview(store models.RecordStore, now time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, rec := range store {
		if rec == nil || rec.NextReviewTime == nil || !rec.NextReviewTime.After(now) {
			continue
		}
		if !found || rec.NextReviewTime.Before(earliest) {
			earliest = *rec.NextReviewTime
			found = true
		}
	}
	return earliest, found
}
