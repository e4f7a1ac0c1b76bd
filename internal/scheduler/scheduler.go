package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
	"github.com/example/drillbot/pkg/models"
)

// Default notification window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 20
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	learners  LearnerSource
	records   RecordLoader
	domains   *universe.Registry
	clock     spaced_repetition.Clock
	startHour int
	endHour   int
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(chatID int64, domain string, count int) error
}

// LearnerSource lists learners to remind at an hour of day
type LearnerSource interface {
	GetForNotification(ctx context.Context, hour int) ([]models.Learner, error)
}

// RecordLoader loads a learner's review records
type RecordLoader interface {
	Load(ctx context.Context, domainKey string) (models.RecordStore, error)
}

// Config holds the reminder window
type Config struct {
	StartHour int
	EndHour   int
	Clock     spaced_repetition.Clock
}

// New creates a new scheduler instance
func New(notifier Notifier, learners LearnerSource, records RecordLoader, domains *universe.Registry, cfg Config) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = spaced_repetition.SystemClock{}
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		learners:  learners,
		records:   records,
		domains:   domains,
		clock:     cfg.Clock,
		startHour: cfg.StartHour,
		endHour:   cfg.EndHour,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Hourly check for learners who need reminders
	_, err := s.scheduler.Every(1).Hour().Do(func() {
		s.CheckAndSendReminders(context.Background())
	})
	if err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// CheckAndSendReminders reminds learners whose notification hour is now and
// who have items due. It returns the number of reminders sent.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) int {
	currentHour := s.clock.Now().Hour()

	if currentHour < s.startHour || currentHour > s.endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.startHour, s.endHour)
		return 0
	}

	learners, err := s.learners.GetForNotification(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting learners for notification: %v", err)
		return 0
	}

	sent := 0
	for _, learner := range learners {
		ok, err := s.RunManualCheck(ctx, learner)
		if err != nil {
			log.Printf("Error sending reminder to chat %d: %v", learner.ChatID, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

// RunManualCheck reminds one learner if their active domain has items due
func (s *Scheduler) RunManualCheck(ctx context.Context, learner models.Learner) (bool, error) {
	count, err := s.DueCount(ctx, learner.ChatID, learner.ActiveDomain)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if err := s.notifier.SendReminders(learner.ChatID, learner.ActiveDomain, count); err != nil {
		return false, err
	}
	return true, nil
}

// DueCount returns how many items of domain are due for a learner
func (s *Scheduler) DueCount(ctx context.Context, chatID int64, domain string) (int, error) {
	d, err := s.domains.Get(domain)
	if err != nil {
		return 0, err
	}
	items, err := d.Provider.Items(ctx)
	if err != nil {
		return 0, err
	}
	store, err := s.records.Load(ctx, universe.DomainKey(domain, chatID))
	if err != nil {
		return 0, err
	}
	return len(spaced_repetition.DueItems(items, store, s.clock.Now())), nil
}
