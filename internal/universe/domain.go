package universe

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/pkg/models"
)

// Domain keys.
const (
	Chinese = "chinese"
	Math    = "math"
	English = "english"
)

// AnswerMode tells a host how to collect an answer.
type AnswerMode int

const (
	// Choice presents multiple-choice options.
	Choice AnswerMode = iota
	// Typed expects a free-text answer.
	Typed
)

// Provider supplies the ordered item universe of a domain.
type Provider interface {
	Items(ctx context.Context) ([]models.Item, error)
}

// Domain binds an item universe to its weighting and recording strategy.
type Domain struct {
	Key        string
	Title      string
	Weights    spaced_repetition.WeightConfig
	Recorder   spaced_repetition.RecorderConfig
	AnswerMode AnswerMode
	Provider   Provider
}

// ErrUnknownDomain is returned for keys missing from a Registry.
var ErrUnknownDomain = errors.New("unknown domain")

// Registry holds the available domains by key.
type Registry struct {
	domains map[string]Domain
}

// NewRegistry creates a registry of the given domains.
func NewRegistry(domains ...Domain) *Registry {
	r := &Registry{domains: make(map[string]Domain, len(domains))}
	for _, d := range domains {
		r.domains[d.Key] = d
	}
	return r
}

// DefaultRegistry returns the chinese, math and english domains. Static decks
// are read from source when it has items for them.
func DefaultRegistry(source DeckSource) *Registry {
	return NewRegistry(
		Domain{
			Key:        Chinese,
			Title:      "Chinese characters",
			Weights:    spaced_repetition.DueWeights(),
			Recorder:   spaced_repetition.DefaultRecorderConfig(),
			AnswerMode: Choice,
			Provider:   DeckProvider{Domain: Chinese, Source: source, Fallback: ChineseDeck},
		},
		Domain{
			Key:        Math,
			Title:      "Arithmetic",
			Weights:    spaced_repetition.RecencyWeights(),
			Recorder:   spaced_repetition.DefaultRecorderConfig(),
			AnswerMode: Typed,
			Provider:   ArithmeticProvider{},
		},
		Domain{
			Key:        English,
			Title:      "English vocabulary",
			Weights:    spaced_repetition.DueWeights(),
			Recorder:   spaced_repetition.DefaultRecorderConfig(),
			AnswerMode: Choice,
			Provider:   DeckProvider{Domain: English, Source: source, Fallback: EnglishDeck},
		},
	)
}

// Get returns the domain registered under key.
func (r *Registry) Get(key string) (Domain, error) {
	d, ok := r.domains[key]
	if !ok {
		return Domain{}, errors.Wrapf(ErrUnknownDomain, "%q", key)
	}
	return d, nil
}

// Keys returns the registered domain keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.domains))
	for k := range r.domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DomainKey builds the persistence key for a learner's records in a domain.
func DomainKey(domain string, learnerID int64) string {
	return fmt.Sprintf("%s:%d", domain, learnerID)
}

// ParseDomainKey splits a key built by DomainKey.
func ParseDomainKey(key string) (domain string, learnerID int64, err error) {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return "", 0, errors.Errorf("malformed domain key %q", key)
	}
	learnerID, err = strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return "", 0, errors.Wrapf(err, "malformed domain key %q", key)
	}
	return key[:i], learnerID, nil
}
