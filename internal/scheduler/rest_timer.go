package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/drillbot/internal/spaced_repetition"
)

// Poll periods of a RestTimer.
const (
	CoarsePeriod = time.Minute
	FinePeriod   = time.Second
)

// PollPeriod returns how often to check a rest that has remaining time left.
func PollPeriod(remaining time.Duration) time.Duration {
	if remaining > CoarsePeriod {
		return CoarsePeriod
	}
	return FinePeriod
}

// RestTimer polls the clock until a rest period is over. It ticks once a
// minute, switches to once a second inside the last minute, calls onElapsed
// once and stops itself. Cancel stops it early.
type RestTimer struct {
	mu        sync.Mutex
	cron      *gocron.Scheduler
	job       *gocron.Job
	period    time.Duration
	clock     spaced_repetition.Clock
	until     time.Time
	onTick    func(remaining time.Duration)
	onElapsed func()
	stopped   bool
}

// NewRestTimer creates a timer for a rest ending at until. onTick may be nil.
func NewRestTimer(clock spaced_repetition.Clock, until time.Time, onTick func(time.Duration), onElapsed func()) *RestTimer {
	if clock == nil {
		clock = spaced_repetition.SystemClock{}
	}
	return &RestTimer{
		cron:      gocron.NewScheduler(time.UTC),
		clock:     clock,
		until:     until,
		onTick:    onTick,
		onElapsed: onElapsed,
	}
}

// Start arms the timer.
func (t *RestTimer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.arm(PollPeriod(t.until.Sub(t.clock.Now()))); err != nil {
		return err
	}
	t.cron.StartAsync()
	return nil
}

// arm replaces the polling job. Callers hold t.mu.
func (t *RestTimer) arm(period time.Duration) error {
	if t.job != nil {
		t.cron.RemoveByReference(t.job)
	}
	job, err := t.cron.Every(period).WaitForSchedule().Do(t.tick)
	if err != nil {
		return err
	}
	t.job = job
	t.period = period
	return nil
}

func (t *RestTimer) tick() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	remaining := t.until.Sub(t.clock.Now())
	if remaining <= 0 {
		t.stopped = true
		t.mu.Unlock()
		// Stop waits for running jobs, this one included.
		go t.cron.Stop()
		t.onElapsed()
		return
	}

	if next := PollPeriod(remaining); next != t.period {
		go t.rearm(next)
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(remaining)
	}
}

func (t *RestTimer) rearm(period time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if err := t.arm(period); err != nil {
		log.Printf("Error re-arming rest timer: %v", err)
	}
}

// Period returns the current polling period.
func (t *RestTimer) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Active reports whether the timer has neither fired nor been cancelled.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// Cancel stops the timer without calling onElapsed. It is safe to call more
// than once.
func (t *RestTimer) Cancel() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()
	t.cron.Stop()
}
