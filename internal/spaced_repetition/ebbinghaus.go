package spaced_repetition

import "time"

// Intervals is the Ebbinghaus review ladder. Index 0 is the retry-soon step,
// the last index is the mastered step.
var Intervals = []time.Duration{
	5 * time.Minute,
	30 * time.Minute,
	12 * time.Hour,
	24 * time.Hour,
	48 * time.Hour,
	96 * time.Hour,
	168 * time.Hour,
	360 * time.Hour,
}

// RequiredAccuracy holds the accuracy a pool must reach to graduate each stage.
var RequiredAccuracy = []float64{0.80, 0.85, 0.90, 0.90, 0.95, 0.95, 0.95, 0.95}

// StageCount is the number of stages on the ladder.
var StageCount = len(Intervals)

// MinInterval is the shortest gap allowed between two reviews of an item.
const MinInterval = 5 * time.Minute

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// RandomSource returns floats in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// IsAccuracyMet reports whether correctCount/totalCount reaches the accuracy
// required at stage. Stages outside the table are clamped to its ends.
func IsAccuracyMet(stage, correctCount, totalCount int) bool {
	if totalCount <= 0 {
		return false
	}
	stage = clampStage(stage)
	return float64(correctCount)/float64(totalCount) >= RequiredAccuracy[stage]
}

func clampStage(stage int) int {
	if stage < 0 {
		return 0
	}
	if stage >= StageCount {
		return StageCount - 1
	}
	return stage
}
