package bot

import (
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/internal/spaced_repetition"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of wrong options offered with a multiple-choice question
	ChoiceOptions int
	// Default hour of day for reminders of new learners
	DefaultNotificationHour int
	// Answers needed before the stage gate can end a round
	MinSample int
	// Admins may trigger the reminder check by hand
	AdminUserIDs map[int64]bool
	// Time source for sessions and rest timers
	Clock spaced_repetition.Clock
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ChoiceOptions:           3,
		DefaultNotificationHour: 9,
		MinSample:               session.DefaultMinSample,
		AdminUserIDs:            make(map[int64]bool),
		Clock:                   spaced_repetition.SystemClock{},
	}
}
