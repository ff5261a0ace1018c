// Package evaluator decides whether a subject may start a test, counts the starts and
// grades submitted answer sets.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/rs/zerolog/log"
)

// ErrSessionBusy is returned when a start for the same scope key is already running.
var ErrSessionBusy = errors.New("a session start for this test is already in progress")

// ErrNoOpenSession is returned when a submission has no started, unsubmitted session.
var ErrNoOpenSession = errors.New("no open session for this test")

type SessionStart struct {
	Allowed      bool `json:"allowed"`
	AttemptsUsed int  `json:"attempts_used"`
}

type Evaluator struct {
	store   kvstore.Store
	counter *AttemptCounter
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

type Option func(*Evaluator)

func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

func New(store kvstore.Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:    store,
		counter:  NewAttemptCounter(store),
		now:      time.Now,
		inFlight: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Now() time.Time { return e.now() }

func (e *Evaluator) Attempts() *AttemptCounter { return e.counter }

// CanStart evaluates entitlement for one catalog item against the latest resolved
// membership. A nil membership (absent, unresolved or failed to load) is not active.
func (e *Evaluator) CanStart(item Content, m *Membership, pos CatalogPosition) Verdict {
	return Decide(item, IsActive(m, e.now()), pos.IsFreeTrialSlot())
}

// StartSession checks the ceiling before counting the attempt, so a refused start
// never writes.
func (e *Evaluator) StartSession(ctx context.Context, scopeKey string, ceiling int) (SessionStart, error) {
	release, ok := e.acquire(scopeKey)
	if !ok {
		return SessionStart{}, ErrSessionBusy
	}
	defer release()

	used, err := e.counter.Get(ctx, scopeKey)
	if err != nil {
		return SessionStart{}, err
	}
	if used >= ceiling {
		log.Info().Str("scopeKey", scopeKey).Int("used", used).Int("ceiling", ceiling).Msg("Attempt ceiling reached")
		return SessionStart{Allowed: false, AttemptsUsed: used}, nil
	}
	n, err := e.counter.Record(ctx, scopeKey)
	if err != nil {
		return SessionStart{}, err
	}
	if err := e.store.Set(ctx, SessionKey(scopeKey), strconv.Itoa(n)); err != nil {
		log.Error().Err(err).Str("scopeKey", scopeKey).Int("attempt", n).Msg("Attempt counted but session record not written")
		return SessionStart{}, fmt.Errorf("open session %s: %w", scopeKey, err)
	}
	return SessionStart{Allowed: true, AttemptsUsed: n}, nil
}

// FinishSession consumes the open session of scopeKey and returns its attempt number.
// Each started session can be finished once.
func (e *Evaluator) FinishSession(ctx context.Context, scopeKey string) (int, error) {
	key := SessionKey(scopeKey)
	release, ok := e.acquire(key)
	if !ok {
		return 0, ErrSessionBusy
	}
	defer release()

	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read session %s: %w", scopeKey, err)
	}
	if !ok {
		return 0, ErrNoOpenSession
	}
	if err := e.store.Delete(ctx, key); err != nil {
		return 0, fmt.Errorf("close session %s: %w", scopeKey, err)
	}
	attempt, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("scopeKey", scopeKey).Str("raw", raw).Msg("Malformed session record")
		attempt = 0
	}
	return attempt, nil
}

func (e *Evaluator) GradeSubmission(questions []Question, answers AnswerMap) ScoreSummary {
	return Grade(questions, answers)
}

func (e *Evaluator) Classify(questions []Question, answers AnswerMap) []QuestionResult {
	return Classify(questions, answers)
}

func (e *Evaluator) acquire(key string) (func(), bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[key]; busy {
		return nil, false
	}
	e.inFlight[key] = struct{}{}
	return func() {
		e.mu.Lock()
		delete(e.inFlight, key)
		e.mu.Unlock()
	}, true
}

// AttemptsLeft never goes below zero.
func AttemptsLeft(used, ceiling int) int {
	if used >= ceiling {
		return 0
	}
	return ceiling - used
}
