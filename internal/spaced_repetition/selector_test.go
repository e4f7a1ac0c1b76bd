package spaced_repetition

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/pkg/models"
)

func TestSelectNextUnseenItem(t *testing.T) {
	s := NewSelector(DueWeights(), &fakeClock{now: t0}, fixedRand(0.5))

	item, ok := s.SelectNext(items("X"), models.RecordStore{})
	require.True(t, ok)
	assert.Equal(t, "X", item.Key)
}

func TestSelectNextNothingDue(t *testing.T) {
	store := models.RecordStore{
		"X": {
			TotalAttempts: 1, CorrectAttempts: 1, ReviewStage: 0,
			NextReviewTime: timePtr(t0.Add(300000 * time.Millisecond)),
		},
	}
	s := NewSelector(DueWeights(), &fakeClock{now: t0}, fixedRand(0.5))

	_, ok := s.SelectNext(items("X"), store)
	assert.False(t, ok)

	_, ok = s.SelectNext(nil, store)
	assert.False(t, ok)
}

func TestSelectNextBecomesDue(t *testing.T) {
	clock := &fakeClock{now: t0}
	store := models.RecordStore{
		"X": {TotalAttempts: 1, CorrectAttempts: 1, NextReviewTime: timePtr(t0.Add(5 * time.Minute))},
	}
	s := NewSelector(DueWeights(), clock, fixedRand(0.5))

	_, ok := s.SelectNext(items("X"), store)
	require.False(t, ok)

	clock.Advance(5 * time.Minute)
	item, ok := s.SelectNext(items("X"), store)
	require.True(t, ok)
	assert.Equal(t, "X", item.Key)
}

func TestSelectNextWeightedDrawFollowsOrder(t *testing.T) {
	universe := items("A", "B", "C")
	tests := []struct {
		draw float64
		want string
	}{
		{0.0, "A"},
		{0.33, "A"},
		{0.34, "B"},
		{0.66, "B"},
		{0.67, "C"},
		{0.999, "C"},
	}
	for _, tt := range tests {
		s := NewSelector(DueWeights(), &fakeClock{now: t0}, fixedRand(tt.draw))
		item, ok := s.SelectNext(universe, models.RecordStore{})
		require.True(t, ok)
		assert.Equal(t, tt.want, item.Key, "draw %v", tt.draw)
	}
}

func TestSelectNextFallsBackToFirstEligible(t *testing.T) {
	store := models.RecordStore{
		"A": {TotalAttempts: 1, CorrectAttempts: 1, NextReviewTime: timePtr(t0.Add(time.Hour))},
	}
	// A draw above 1 exhausts the list without crossing zero.
	s := NewSelector(DueWeights(), &fakeClock{now: t0}, fixedRand(1.5))
	item, ok := s.SelectNext(items("A", "B", "C"), store)
	require.True(t, ok)
	assert.Equal(t, "B", item.Key)
}

func TestSelectNextOnlyReturnsEligibleItems(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	universe := items("a", "b", "c", "d", "e", "f")
	store := models.RecordStore{
		"a": {TotalAttempts: 2, CorrectAttempts: 2, ReviewStage: 2, NextReviewTime: timePtr(t0.Add(12 * time.Hour))},
		"c": {TotalAttempts: 1, WrongAttempts: 1, NextReviewTime: timePtr(t0.Add(-time.Minute))},
		"d": {TotalAttempts: 3, CorrectAttempts: 1, WrongAttempts: 2, NextReviewTime: timePtr(t0.Add(time.Minute))},
		"f": {TotalAttempts: 1, CorrectAttempts: 1, ReviewStage: 1, NextReviewTime: timePtr(t0)},
	}

	for _, cfg := range []WeightConfig{DueWeights(), RecencyWeights()} {
		s := NewSelector(cfg, &fakeClock{now: t0}, rng)
		seen := map[string]bool{}
		for i := 0; i < 500; i++ {
			item, ok := s.SelectNext(universe, store)
			require.True(t, ok)
			seen[item.Key] = true
			rec := store.Get(item.Key)
			if rec != nil {
				assert.False(t, rec.NextReviewTime.After(t0), "returned %s before it was due", item.Key)
			}
		}
		assert.False(t, seen["a"])
		assert.False(t, seen["d"])
		assert.True(t, seen["b"] && seen["c"] && seen["e"] && seen["f"])
	}
}

func TestSelectNextIsDeterministicWithSeed(t *testing.T) {
	universe := items("a", "b", "c", "d")
	draw := func() []string {
		s := NewSelector(DueWeights(), &fakeClock{now: t0}, rand.New(rand.NewSource(99)))
		var keys []string
		for i := 0; i < 20; i++ {
			item, _ := s.SelectNext(universe, models.RecordStore{})
			keys = append(keys, item.Key)
		}
		return keys
	}
	assert.Equal(t, draw(), draw())
}

func TestDueItems(t *testing.T) {
	store := models.RecordStore{
		"a": {TotalAttempts: 1, CorrectAttempts: 1, NextReviewTime: timePtr(t0.Add(time.Hour))},
		"b": {TotalAttempts: 1, CorrectAttempts: 1, NextReviewTime: timePtr(t0.Add(-time.Hour))},
	}
	due := DueItems(items("a", "b", "c"), store, t0)
	assert.Equal(t, items("b", "c"), due)
}

func TestEarliestReview(t *testing.T) {
	store := models.RecordStore{
		"past":  {NextReviewTime: timePtr(t0.Add(-time.Hour))},
		"later": {NextReviewTime: timePtr(t0.Add(3 * time.Hour))},
		"soon":  {NextReviewTime: timePtr(t0.Add(10 * time.Minute))},
		"none":  {},
		"nil":   nil,
	}
	next, ok := EarliestReview(store, t0)
	require.True(t, ok)
	assert.Equal(t, t0.Add(10*time.Minute), next)

	_, ok = EarliestReview(models.RecordStore{"past": store["past"]}, t0)
	assert.False(t, ok)
}
