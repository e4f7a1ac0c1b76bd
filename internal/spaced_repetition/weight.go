package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/drillbot/pkg/models"
)

// WeightMode selects which time signal drives the weight.
type WeightMode int

const (
	// TimeUntilDue favours items whose next review is close. Used for
	// characters and vocabulary.
	TimeUntilDue WeightMode = iota
	// TimeSinceLast favours items that have not been seen for a while. Used for
	// arithmetic problems.
	TimeSinceLast
)

func (m WeightMode) String() string {
	switch m {
	case TimeUntilDue:
		return "time-until-due"
	case TimeSinceLast:
		return "time-since-last"
	default:
		return "unknown"
	}
}

// WeightConfig blends the sub-scores of a weighting strategy. Factors that do
// not apply to the selected Mode are ignored.
type WeightConfig struct {
	Mode     WeightMode
	Time     float64 // time-until-due or recency score
	Accuracy float64 // (1 - accuracy) * 100
	Stage    float64 // (N - stage) * 10, TimeUntilDue only
	Wrong    float64 // min(100, wrong*20), TimeSinceLast only
	Exposure float64 // max(0, 100 - total*10), TimeSinceLast only
}

// DueWeights is the 40/40/20 blend used for characters and vocabulary.
func DueWeights() WeightConfig {
	return WeightConfig{Mode: TimeUntilDue, Time: 0.4, Accuracy: 0.4, Stage: 0.2}
}

// RecencyWeights is the 30/30/20/20 blend used for arithmetic problems.
func RecencyWeights() WeightConfig {
	return WeightConfig{Mode: TimeSinceLast, Time: 0.3, Accuracy: 0.3, Wrong: 0.2, Exposure: 0.2}
}

// MaxWeight is the weight of unseen and overdue items.
const MaxWeight = 100.0

// recencyWindow normalises hours since the last attempt to a 0-100 score.
const recencyWindow = 24.0

// Weight scores how much rec needs review at now, in [0, 100].
// A nil record is an unseen item and always gets MaxWeight.
func Weight(cfg WeightConfig, rec *models.ReviewRecord, now time.Time) float64 {
	if rec == nil {
		return MaxWeight
	}
	accuracyWeight := (1 - rec.Accuracy()) * 100

	var w float64
	switch cfg.Mode {
	case TimeSinceLast:
		recency := MaxWeight
		if rec.LastAttemptTime != nil {
			since := now.Sub(*rec.LastAttemptTime).Hours()
			recency = math.Min(100, math.Max(0, since/recencyWindow*100))
		}
		wrongWeight := math.Min(100, float64(rec.WrongAttempts)*20)
		exposureWeight := math.Max(0, 100-float64(rec.TotalAttempts)*10)
		w = recency*cfg.Time + accuracyWeight*cfg.Accuracy + wrongWeight*cfg.Wrong + exposureWeight*cfg.Exposure
	default:
		if rec.NextReviewTime == nil || !now.Before(*rec.NextReviewTime) {
			return MaxWeight
		}
		timeWeight := math.Max(0, 100-rec.NextReviewTime.Sub(now).Hours())
		stageWeight := float64(StageCount-clampStage(rec.ReviewStage)) * 10
		w = timeWeight*cfg.Time + accuracyWeight*cfg.Accuracy + stageWeight*cfg.Stage
	}

	return math.Max(0, math.Min(MaxWeight, w))
}
