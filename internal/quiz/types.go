package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/gokatarajesh/slicetomeetyou/internal/heatmap"
)

// Config bounds one session.
type Config struct {
	Rows          int           // operand A range is [1, Rows]
	Cols          int           // operand B range is [1, Cols]
	QuestionCount int           // questions per session
	Penalty       time.Duration // added to wrong answers
	Pause         time.Duration // feedback pause between questions
}

// DefaultConfig matches the public site: 5 questions on a 20x20 grid.
func DefaultConfig() Config {
	return Config{
		Rows:          20,
		Cols:          20,
		QuestionCount: 5,
		Penalty:       10 * time.Second,
		Pause:         time.Second,
	}
}

func (c Config) validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("quiz: invalid grid %dx%d", c.Rows, c.Cols)
	}
	if c.QuestionCount < 1 {
		return fmt.Errorf("quiz: invalid question count %d", c.QuestionCount)
	}
	if c.Penalty < 0 || c.Pause < 0 {
		return fmt.Errorf("quiz: penalty and pause must not be negative")
	}
	return nil
}

// Question is one multiplication prompt.
type Question struct {
	A      int
	B      int
	Number int // 1-based position in the session
	Total  int
}

// Answer is the expected product.
func (q Question) Answer() int {
	return q.A * q.B
}

// Prompt is the text shown to the player.
func (q Question) Prompt() string {
	return fmt.Sprintf("Question %d/%d: What is %d × %d?", q.Number, q.Total, q.A, q.B)
}

// QuestionRecord is one answered question. Immutable once recorded.
type QuestionRecord struct {
	A             int
	B             int
	UserAnswer    int
	Correct       bool
	TimeTaken     time.Duration
	EffectiveTime time.Duration
}

type recordWire struct {
	A             int     `json:"a"`
	B             int     `json:"b"`
	UserAnswer    int     `json:"user_answer"`
	Correct       bool    `json:"correct"`
	TimeTaken     float64 `json:"time_taken"`
	EffectiveTime float64 `json:"effective_time"`
}

// MarshalJSON writes times as float seconds, the way the backend stores them.
func (r QuestionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordWire{
		A:             r.A,
		B:             r.B,
		UserAnswer:    r.UserAnswer,
		Correct:       r.Correct,
		TimeTaken:     r.TimeTaken.Seconds(),
		EffectiveTime: r.EffectiveTime.Seconds(),
	})
}

func (r *QuestionRecord) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = QuestionRecord{
		A:             w.A,
		B:             w.B,
		UserAnswer:    w.UserAnswer,
		Correct:       w.Correct,
		TimeTaken:     seconds(w.TimeTaken),
		EffectiveTime: seconds(w.EffectiveTime),
	}
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(math.Round(f * float64(time.Second)))
}

// SessionBatch is submitted once per completed session.
type SessionBatch struct {
	Responses []QuestionRecord `json:"responses"`
	UserID    string           `json:"user_id"`
}

// Result is the backend's aggregate answer to a submitted batch.
type Result struct {
	UserAvg    float64         `json:"user_avg"`
	UserCount  int             `json:"user_count"`
	WorldAvg   float64         `json:"world_avg"`
	WorldCount int             `json:"world_count"`
	Heatmap    heatmap.Heatmap `json:"heatmap"`
}
