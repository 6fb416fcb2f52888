package scoring

import (
	"time"
)

// ScoringConfig holds configurable scoring constants.
type ScoringConfig struct {
	Penalty time.Duration // added to the time of every wrong answer, default 10s
}

// DefaultScoringConfig returns production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Penalty: 10 * time.Second,
	}
}

// Engine computes effective times and session aggregates.
type Engine struct {
	config ScoringConfig
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config ScoringConfig) *Engine {
	return &Engine{config: config}
}

// Penalty returns the configured wrong-answer penalty.
func (e *Engine) Penalty() time.Duration {
	return e.config.Penalty
}

// EffectiveTime is the scoring unit: time taken, plus the penalty when wrong.
func (e *Engine) EffectiveTime(isCorrect bool, timeTaken time.Duration) time.Duration {
	if isCorrect {
		return timeTaken
	}
	return timeTaken + e.config.Penalty
}

// Attempt is the part of an answer the aggregates need.
type Attempt struct {
	IsCorrect     bool
	TimeTaken     time.Duration
	EffectiveTime time.Duration
}

// Summary aggregates one session.
type Summary struct {
	Count            int
	CorrectCount     int
	Accuracy         float64
	AverageTaken     time.Duration
	AverageEffective time.Duration
	Fastest          time.Duration
	Slowest          time.Duration
}

// Summarize computes the session averages. Fastest/Slowest compare effective times.
func (e *Engine) Summarize(attempts []Attempt) Summary {
	if len(attempts) == 0 {
		return Summary{}
	}

	var s Summary
	var taken, effective time.Duration
	s.Fastest = attempts[0].EffectiveTime
	s.Slowest = attempts[0].EffectiveTime

	for _, a := range attempts {
		if a.IsCorrect {
			s.CorrectCount++
		}
		taken += a.TimeTaken
		effective += a.EffectiveTime
		s.Fastest = min(s.Fastest, a.EffectiveTime)
		s.Slowest = max(s.Slowest, a.EffectiveTime)
	}

	s.Count = len(attempts)
	s.Accuracy = float64(s.CorrectCount) / float64(s.Count)
	s.AverageTaken = taken / time.Duration(s.Count)
	s.AverageEffective = effective / time.Duration(s.Count)
	return s
}
