package session

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
	"github.com/example/drillbot/pkg/models"
)

// State is a step of the presentation loop.
type State int

const (
	// AwaitingNext is the initial state; the next call to Next schedules an item.
	AwaitingNext State = iota
	// Presenting means an item is shown and waiting for an answer.
	Presenting
	// Resting means the pool is done for now until RestUntil.
	Resting
)

func (s State) String() string {
	switch s {
	case AwaitingNext:
		return "awaiting-next"
	case Presenting:
		return "presenting"
	case Resting:
		return "resting"
	default:
		return "unknown"
	}
}

// DefaultMinSample is the number of answers needed before the stage gate can
// send the learner to rest.
const DefaultMinSample = 5

// ErrNotPresenting is returned by Answer when no item is being presented.
var ErrNotPresenting = errors.New("no item is being presented")

// Persistence loads and saves record stores by domain key.
type Persistence interface {
	Load(ctx context.Context, domainKey string) (models.RecordStore, error)
	Save(ctx context.Context, domainKey string, records models.RecordStore) error
}

// Options tune a Session. Zero values use defaults.
type Options struct {
	Clock     spaced_repetition.Clock
	Rand      spaced_repetition.RandomSource
	MinSample int
}

// Snapshot is what a host needs to render the session.
type Snapshot struct {
	State     State
	Item      models.Item
	RestUntil time.Time
}

// Session drives one learner through one domain. It owns its record store,
// loading it at start and saving it after every answer. A Session is not
// safe for concurrent use.
type Session struct {
	ID        string
	Domain    universe.Domain
	DomainKey string

	persistence Persistence
	clock       spaced_repetition.Clock
	selector    *spaced_repetition.Selector
	recorder    *spaced_repetition.Recorder
	minSample   int

	universe []models.Item
	store    models.RecordStore

	state     State
	current   models.Item
	restUntil time.Time

	sessionCorrect int
	sessionTotal   int
	gateStage      int
}

// New loads the universe of domain and the records saved under domainKey.
func New(ctx context.Context, domain universe.Domain, domainKey string, persistence Persistence, opts Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = spaced_repetition.SystemClock{}
	}
	if opts.MinSample <= 0 {
		opts.MinSample = DefaultMinSample
	}

	items, err := domain.Provider.Items(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s items", domain.Key)
	}

	store, err := persistence.Load(ctx, domainKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load records for %s", domainKey)
	}
	if store == nil {
		store = models.RecordStore{}
	}

	return &Session{
		ID:          uuid.NewString(),
		Domain:      domain,
		DomainKey:   domainKey,
		persistence: persistence,
		clock:       opts.Clock,
		selector:    spaced_repetition.NewSelector(domain.Weights, opts.Clock, opts.Rand),
		recorder:    spaced_repetition.NewRecorder(domain.Recorder, opts.Clock),
		minSample:   opts.MinSample,
		universe:    items,
		store:       store,
		state:       AwaitingNext,
	}, nil
}

// Next advances the loop and returns what to show. While presenting it
// returns the current item again; while resting it resumes once the rest
// time has passed.
func (s *Session) Next() Snapshot {
	if s.state == Resting && !s.clock.Now().Before(s.restUntil) {
		s.state = AwaitingNext
	}

	if s.state == AwaitingNext {
		s.schedule()
	}
	return s.Snapshot()
}

// Snapshot returns the current state without advancing it.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{State: s.state, Item: s.current, RestUntil: s.restUntil}
}

// State returns the current loop state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) schedule() {
	if s.GateMet() {
		s.rest("stage gate met")
		return
	}
	item, ok := s.selector.SelectNext(s.universe, s.store)
	if !ok {
		s.rest("nothing due")
		return
	}
	s.current = item
	s.state = Presenting
}

func (s *Session) rest(reason string) {
	now := s.clock.Now()
	until, ok := spaced_repetition.EarliestReview(s.store, now)
	if !ok {
		until = now.Add(spaced_repetition.MinInterval)
	}
	log.Printf("Session %s (%s) resting until %s: %s, %d/%d correct",
		s.ID, s.DomainKey, until.Format(time.RFC3339), reason, s.sessionCorrect, s.sessionTotal)

	s.state = Resting
	s.current = models.Item{}
	s.restUntil = until
	s.sessionCorrect = 0
	s.sessionTotal = 0
}

// GateMet reports whether this session has answered enough, accurately
// enough, at the stage of the last answered item.
func (s *Session) GateMet() bool {
	return s.sessionTotal >= s.minSample &&
		spaced_repetition.IsAccuracyMet(s.gateStage, s.sessionCorrect, s.sessionTotal)
}

// Answer records the outcome for the presented item and saves the store.
// The session moves to AwaitingNext even when saving fails.
func (s *Session) Answer(ctx context.Context, isCorrect bool) (*models.ReviewRecord, error) {
	if s.state != Presenting {
		return nil, ErrNotPresenting
	}

	rec := s.recorder.RecordOutcome(s.store, s.current, isCorrect)
	s.sessionTotal++
	if isCorrect {
		s.sessionCorrect++
	}
	s.gateStage = rec.ReviewStage
	s.state = AwaitingNext

	if err := s.persistence.Save(ctx, s.DomainKey, s.store); err != nil {
		return rec, errors.Wrapf(err, "failed to save records for %s", s.DomainKey)
	}
	return rec, nil
}

// Current returns the presented item.
func (s *Session) Current() (models.Item, bool) {
	return s.current, s.state == Presenting
}

// Universe returns the items of the session's domain.
func (s *Session) Universe() []models.Item {
	return s.universe
}

// Record returns the record of key, or nil when it was never answered.
func (s *Session) Record(key string) *models.ReviewRecord {
	return s.store.Get(key)
}

// Counters returns this session's correct and total answers since the last rest.
func (s *Session) Counters() (correct, total int) {
	return s.sessionCorrect, s.sessionTotal
}

// Summary reports progress over the domain.
func (s *Session) Summary() spaced_repetition.Summary {
	return spaced_repetition.Summarize(s.universe, s.store, s.clock.Now())
}

// Reset forgets every record of the domain and starts over.
func (s *Session) Reset(ctx context.Context) error {
	s.store = models.RecordStore{}
	s.state = AwaitingNext
	s.current = models.Item{}
	s.restUntil = time.Time{}
	s.sessionCorrect = 0
	s.sessionTotal = 0
	s.gateStage = 0
	if err := s.persistence.Save(ctx, s.DomainKey, s.store); err != nil {
		return errors.Wrapf(err, "failed to reset records for %s", s.DomainKey)
	}
	return nil
}
