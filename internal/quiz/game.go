package quiz

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/slicetomeetyou/internal/quiz/scoring"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

// UI is the front end a Game drives.
type UI interface {
	ShowQuestion(q Question)
	ReadAnswer(ctx context.Context) (string, error)
	ShowInvalid(err error)
	ShowOutcome(q Question, rec QuestionRecord)
}

// Submitter delivers a finished session to the backend.
type Submitter interface {
	Submit(ctx context.Context, batch SessionBatch) (*Result, error)
}

// Recorder observes gameplay, e.g. for metrics. Optional.
type Recorder interface {
	ObserveAnswer(rec QuestionRecord)
	ObserveSession(summary scoring.Summary)
}

// GameOptions configures optional collaborators.
type GameOptions struct {
	Recorder       Recorder
	SessionOptions []Option
}

// Game owns one Session per Play and submits it when done.
type Game struct {
	cfg       Config
	submitter Submitter
	opts      GameOptions
	logger    zerolog.Logger
}

// Outcome is what a finished play produced.
type Outcome struct {
	Records []QuestionRecord
	Summary scoring.Summary
	Result  *Result
}

// NewGame builds a controller for the given session config.
func NewGame(cfg Config, submitter Submitter, opts GameOptions, logger zerolog.Logger) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Game{
		cfg:       cfg,
		submitter: submitter,
		opts:      opts,
		logger:    logger.With().Str("component", "quiz").Logger(),
	}, nil
}

// Play runs a full session for userID. If the submission fails the local
// outcome is returned alongside the error.
func (g *Game) Play(ctx context.Context, userID string, ui UI) (*Outcome, error) {
	session, err := NewSession(g.cfg, g.opts.SessionOptions...)
	if err != nil {
		return nil, err
	}

	q := session.Start()
	g.logger.Debug().Int("questions", g.cfg.QuestionCount).Msg("session started")

	for {
		ui.ShowQuestion(q)
		raw, err := ui.ReadAnswer(ctx)
		if err != nil {
			return nil, fmt.Errorf("read answer: %w", err)
		}

		rec, err := session.Submit(raw)
		if err != nil {
			if httperrors.IsKind(err, httperrors.KindInputValidation) {
				ui.ShowInvalid(err)
				continue
			}
			return nil, err
		}
		ui.ShowOutcome(q, rec)
		if g.opts.Recorder != nil {
			g.opts.Recorder.ObserveAnswer(rec)
		}

		next, done, err := session.Advance(ctx)
		if err != nil {
			return nil, fmt.Errorf("advance: %w", err)
		}
		if done {
			break
		}
		q = next
	}

	batch, err := session.Batch(userID)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{
		Records: batch.Responses,
		Summary: session.Summary(),
	}
	if g.opts.Recorder != nil {
		g.opts.Recorder.ObserveSession(outcome.Summary)
	}

	g.logger.Info().
		Int("correct", outcome.Summary.CorrectCount).
		Dur("avg_effective", outcome.Summary.AverageEffective).
		Msg("session finished")

	result, err := g.submitter.Submit(ctx, batch)
	if err != nil {
		g.logger.Warn().Err(err).Msg("session submit failed")
		return outcome, fmt.Errorf("submit session: %w", err)
	}
	outcome.Result = result
	return outcome, nil
}
