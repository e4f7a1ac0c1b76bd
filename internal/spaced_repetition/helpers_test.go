package spaced_repetition

import (
	"time"

	"github.com/example/drillbot/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fixedRand always returns v.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func timePtr(t time.Time) *time.Time { return &t }

func items(keys ...string) []models.Item {
	out := make([]models.Item, len(keys))
	for i, k := range keys {
		out[i] = models.Item{Key: k}
	}
	return out
}
