package spaced_repetition

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/drillbot/pkg/models"
)

func TestWeightUnseenItem(t *testing.T) {
	assert.Equal(t, MaxWeight, Weight(DueWeights(), nil, t0))
	assert.Equal(t, MaxWeight, Weight(RecencyWeights(), nil, t0))
}

func TestWeightOverdueItem(t *testing.T) {
	rec := &models.ReviewRecord{
		TotalAttempts: 3, CorrectAttempts: 3, ReviewStage: 3,
		NextReviewTime: timePtr(t0.Add(-time.Hour)),
	}
	assert.Equal(t, MaxWeight, Weight(DueWeights(), rec, t0))

	rec.NextReviewTime = timePtr(t0)
	assert.Equal(t, MaxWeight, Weight(DueWeights(), rec, t0))
}

func TestWeightTimeUntilDue(t *testing.T) {
	rec := &models.ReviewRecord{
		TotalAttempts: 4, CorrectAttempts: 3, WrongAttempts: 1, ReviewStage: 2,
		NextReviewTime: timePtr(t0.Add(10 * time.Hour)),
	}
	// time 90*0.4 + accuracy 25*0.4 + stage 60*0.2
	assert.InDelta(t, 58.0, Weight(DueWeights(), rec, t0), 1e-9)

	rec.NextReviewTime = timePtr(t0.Add(200 * time.Hour))
	// time weight floors at 0
	assert.InDelta(t, 22.0, Weight(DueWeights(), rec, t0), 1e-9)
}

func TestWeightTimeSinceLast(t *testing.T) {
	rec := &models.ReviewRecord{
		TotalAttempts: 5, CorrectAttempts: 3, WrongAttempts: 2, ReviewStage: 1,
		LastAttemptTime: timePtr(t0.Add(-12 * time.Hour)),
		NextReviewTime:  timePtr(t0.Add(-time.Minute)),
	}
	// recency 50*0.3 + accuracy 40*0.3 + wrong 40*0.2 + exposure 50*0.2
	assert.InDelta(t, 45.0, Weight(RecencyWeights(), rec, t0), 1e-9)

	rec.LastAttemptTime = timePtr(t0.Add(-72 * time.Hour))
	rec.WrongAttempts, rec.CorrectAttempts = 10, 0
	rec.TotalAttempts = 10
	// recency caps at 100, wrong caps at 100, exposure floors at 0
	assert.InDelta(t, 30.0+30.0+20.0, Weight(RecencyWeights(), rec, t0), 1e-9)
}

func TestWeightZeroAttemptRecord(t *testing.T) {
	rec := &models.ReviewRecord{NextReviewTime: timePtr(t0.Add(time.Hour))}
	w := Weight(DueWeights(), rec, t0)
	assert.False(t, math.IsNaN(w))
	assert.InDelta(t, 99*0.4+100*0.4+80*0.2, w, 1e-9)
}

func TestWeightRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, cfg := range []WeightConfig{DueWeights(), RecencyWeights()} {
		for i := 0; i < 2000; i++ {
			total := rng.Intn(50)
			correct := 0
			if total > 0 {
				correct = rng.Intn(total + 1)
			}
			rec := &models.ReviewRecord{
				TotalAttempts:   total,
				CorrectAttempts: correct,
				WrongAttempts:   total - correct,
				ReviewStage:     rng.Intn(StageCount),
				LastAttemptTime: timePtr(t0.Add(-time.Duration(rng.Intn(1000)) * time.Hour)),
				NextReviewTime:  timePtr(t0.Add(time.Duration(rng.Intn(800)-400) * time.Hour)),
			}
			w := Weight(cfg, rec, t0)
			assert.GreaterOrEqual(t, w, 0.0)
			assert.LessOrEqual(t, w, MaxWeight)
		}
	}
}

func TestWeightModeString(t *testing.T) {
	assert.Equal(t, "time-until-due", TimeUntilDue.String())
	assert.Equal(t, "time-since-last", TimeSinceLast.String())
}
