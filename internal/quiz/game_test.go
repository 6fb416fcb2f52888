package quiz

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/slicetomeetyou/internal/heatmap"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz/scoring"
)

type scriptedAnswer struct {
	raw     string // used verbatim when set
	correct bool
	delay   time.Duration
}

type scriptedUI struct {
	clock    *fakeClock
	script   []scriptedAnswer
	current  Question
	shown    []Question
	invalid  int
	outcomes []QuestionRecord
}

func (u *scriptedUI) ShowQuestion(q Question) {
	u.current = q
	u.shown = append(u.shown, q)
}

func (u *scriptedUI) ReadAnswer(ctx context.Context) (string, error) {
	if len(u.script) == 0 {
		return "", io.EOF
	}
	next := u.script[0]
	u.script = u.script[1:]
	u.clock.Advance(next.delay)
	switch {
	case next.raw != "":
		return next.raw, nil
	case next.correct:
		return strconv.Itoa(u.current.Answer()), nil
	default:
		return strconv.Itoa(u.current.Answer() + 1), nil
	}
}

func (u *scriptedUI) ShowInvalid(error) { u.invalid++ }

func (u *scriptedUI) ShowOutcome(_ Question, rec QuestionRecord) {
	u.outcomes = append(u.outcomes, rec)
}

type stubSubmitter struct {
	batches []SessionBatch
	result  *Result
	err     error
}

func (s *stubSubmitter) Submit(_ context.Context, batch SessionBatch) (*Result, error) {
	s.batches = append(s.batches, batch)
	return s.result, s.err
}

type countingRecorder struct {
	answers  int
	sessions []scoring.Summary
}

func (r *countingRecorder) ObserveAnswer(QuestionRecord) { r.answers++ }

func (r *countingRecorder) ObserveSession(s scoring.Summary) { r.sessions = append(r.sessions, s) }

func newTestGame(t *testing.T, clock *fakeClock, sub Submitter, rec Recorder) *Game {
	t.Helper()
	g, err := NewGame(DefaultConfig(), sub, GameOptions{
		Recorder: rec,
		SessionOptions: []Option{
			WithClock(clock.Now),
			WithPause(noPause),
		},
	}, zerolog.Nop())
	require.NoError(t, err)
	return g
}

func TestPlayFullSession(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	ui := &scriptedUI{clock: clock, script: []scriptedAnswer{
		{correct: true, delay: 2 * time.Second},
		{raw: "seven", delay: 500 * time.Millisecond},
		{correct: true, delay: 1500 * time.Millisecond},
		{correct: true, delay: 2 * time.Second},
		{correct: false, delay: 3 * time.Second},
		{correct: false, delay: 3 * time.Second},
	}}
	result := &Result{
		UserAvg: 6.4, UserCount: 5, WorldAvg: 5.1, WorldCount: 120,
		Heatmap: heatmap.Heatmap{heatmap.Key{Row: 3, Col: 4}: {AvgEffective: 2.5, Count: 1}},
	}
	sub := &stubSubmitter{result: result}
	rec := &countingRecorder{}

	outcome, err := newTestGame(t, clock, sub, rec).Play(context.Background(), "user-42", ui)
	require.NoError(t, err)

	assert.Equal(t, 1, ui.invalid)
	assert.Len(t, ui.shown, 6)
	require.Len(t, outcome.Records, 5)
	assert.Equal(t, 6400*time.Millisecond, outcome.Summary.AverageEffective)
	assert.Equal(t, 3, outcome.Summary.CorrectCount)
	assert.Same(t, result, outcome.Result)

	// The invalid entry does not reset the question timer.
	assert.Equal(t, 2*time.Second, outcome.Records[1].TimeTaken)

	require.Len(t, sub.batches, 1)
	assert.Equal(t, "user-42", sub.batches[0].UserID)
	assert.Equal(t, outcome.Records, sub.batches[0].Responses)

	assert.Equal(t, 5, rec.answers)
	require.Len(t, rec.sessions, 1)
	assert.Equal(t, outcome.Summary, rec.sessions[0])
}

func TestPlaySubmitFailureKeepsLocalOutcome(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	script := make([]scriptedAnswer, 5)
	for i := range script {
		script[i] = scriptedAnswer{correct: true, delay: time.Second}
	}
	ui := &scriptedUI{clock: clock, script: script}
	boom := errors.New("connection refused")
	sub := &stubSubmitter{err: boom}

	outcome, err := newTestGame(t, clock, sub, nil).Play(context.Background(), "u", ui)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, outcome)
	assert.Nil(t, outcome.Result)
	assert.Len(t, outcome.Records, 5)
	assert.Equal(t, time.Second, outcome.Summary.AverageEffective)
}

func TestPlayStopsWhenInputEnds(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	ui := &scriptedUI{clock: clock, script: []scriptedAnswer{{correct: true, delay: time.Second}}}
	sub := &stubSubmitter{}

	_, err := newTestGame(t, clock, sub, nil).Play(context.Background(), "u", ui)
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, sub.batches)
}

func TestNewGameRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cols = 0
	_, err := NewGame(cfg, &stubSubmitter{}, GameOptions{}, zerolog.Nop())
	assert.Error(t, err)
}
