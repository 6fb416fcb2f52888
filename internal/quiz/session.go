package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gokatarajesh/slicetomeetyou/internal/quiz/scoring"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

var (
	ErrNotStarted      = errors.New("quiz: session not started")
	ErrFinished        = errors.New("quiz: session finished")
	ErrNotFinished     = errors.New("quiz: session still running")
	ErrSubmitInFlight  = errors.New("quiz: previous answer still being processed")
	ErrNoPendingAnswer = errors.New("quiz: no answer to advance from")
)

// PauseFunc blocks for d or until ctx is done.
type PauseFunc func(ctx context.Context, d time.Duration) error

// Option customizes a Session.
type Option func(*Session)

// WithRand sets the operand source.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithClock sets the wall clock used for answer timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithPause replaces the display pause.
func WithPause(p PauseFunc) Option {
	return func(s *Session) { s.pause = p }
}

// Session holds the state of one play-through. A submitted answer holds the
// in-flight guard until Advance has waited out the pause, so a second Submit
// in between is rejected instead of recorded.
type Session struct {
	cfg    Config
	engine *scoring.Engine
	rng    *rand.Rand
	now    func() time.Time
	pause  PauseFunc

	mu        sync.Mutex
	current   *Question
	startedAt time.Time
	records   []QuestionRecord
	inFlight  bool
	advancing bool
	finished  bool
}

// NewSession validates cfg and builds an idle session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		engine: scoring.NewEngine(scoring.ScoringConfig{Penalty: cfg.Penalty}),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
		pause:  sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start resets the session and returns the first question.
func (s *Session) Start() Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]QuestionRecord, 0, s.cfg.QuestionCount)
	s.inFlight = false
	s.advancing = false
	s.finished = false
	return s.nextLocked()
}

// Current returns the question on screen, if any.
func (s *Session) Current() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Question{}, false
	}
	return *s.current, true
}

// Submit scores raw against the current question and records it. Input that
// is not an integer is rejected without recording or consuming the question.
func (s *Session) Submit(raw string) (QuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.finished:
		return QuestionRecord{}, ErrFinished
	case s.current == nil:
		return QuestionRecord{}, ErrNotStarted
	case s.inFlight:
		return QuestionRecord{}, ErrSubmitInFlight
	}

	answer, err := parseAnswer(raw)
	if err != nil {
		return QuestionRecord{}, err
	}

	taken := s.now().Sub(s.startedAt)
	if taken < 0 {
		taken = 0
	}
	q := *s.current
	correct := answer == q.Answer()

	rec := QuestionRecord{
		A:             q.A,
		B:             q.B,
		UserAnswer:    answer,
		Correct:       correct,
		TimeTaken:     taken,
		EffectiveTime: s.engine.EffectiveTime(correct, taken),
	}
	s.records = append(s.records, rec)
	s.inFlight = true
	return rec, nil
}

// Advance waits out the display pause, releases the guard and returns the
// next question, or done=true once the question count is reached. If ctx ends
// during the pause the guard stays held and Advance may be called again.
func (s *Session) Advance(ctx context.Context) (next Question, done bool, err error) {
	s.mu.Lock()
	switch {
	case !s.inFlight:
		s.mu.Unlock()
		return Question{}, s.finished, ErrNoPendingAnswer
	case s.advancing:
		s.mu.Unlock()
		return Question{}, false, ErrSubmitInFlight
	}
	s.advancing = true
	pause := s.cfg.Pause
	s.mu.Unlock()

	err = s.pause(ctx, pause)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advancing = false
	if err != nil {
		return Question{}, false, err
	}

	s.inFlight = false
	if len(s.records) >= s.cfg.QuestionCount {
		s.finished = true
		s.current = nil
		return Question{}, true, nil
	}
	return s.nextLocked(), false, nil
}

// Finished reports whether every question has been answered and advanced.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Records returns a copy of the answered questions in order.
func (s *Session) Records() []QuestionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QuestionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Summary aggregates the answered questions so far.
func (s *Session) Summary() scoring.Summary {
	records := s.Records()
	attempts := make([]scoring.Attempt, len(records))
	for i, r := range records {
		attempts[i] = scoring.Attempt{
			IsCorrect:     r.Correct,
			TimeTaken:     r.TimeTaken,
			EffectiveTime: r.EffectiveTime,
		}
	}
	return s.engine.Summarize(attempts)
}

// Batch builds the submission for a finished session.
func (s *Session) Batch(userID string) (SessionBatch, error) {
	if !s.Finished() {
		return SessionBatch{}, ErrNotFinished
	}
	return SessionBatch{Responses: s.Records(), UserID: userID}, nil
}

func (s *Session) nextLocked() Question {
	q := Question{
		A:      s.rng.IntN(s.cfg.Rows) + 1,
		B:      s.rng.IntN(s.cfg.Cols) + 1,
		Number: len(s.records) + 1,
		Total:  s.cfg.QuestionCount,
	}
	s.current = &q
	s.startedAt = s.now()
	return q
}

func parseAnswer(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, httperrors.Validation(httperrors.ErrCodeInvalidAnswer, "answer", "Please enter a valid number.")
	}
	return n, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
