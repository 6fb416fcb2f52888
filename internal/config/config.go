package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration shared across commands.
type App struct {
	Name     string `env:"APP_NAME" envDefault:"slices"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Backend  Backend
	Quiz     Quiz
	Share    Share
	Identity Identity
	Redis    Redis
	Metrics  Metrics
}

// Backend locates the HTTP backend both apps talk to.
type Backend struct {
	URL         string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	HTTPTimeout time.Duration `env:"BACKEND_HTTP_TIMEOUT" envDefault:"10s"`
}

// Quiz groups times-tables gameplay defaults.
type Quiz struct {
	QuestionCount int           `env:"QUIZ_QUESTION_COUNT" envDefault:"5"`
	GridRows      int           `env:"QUIZ_GRID_ROWS" envDefault:"20"`
	GridCols      int           `env:"QUIZ_GRID_COLS" envDefault:"20"`
	Penalty       time.Duration `env:"QUIZ_PENALTY" envDefault:"10s"`
	Pause         time.Duration `env:"QUIZ_PAUSE" envDefault:"1s"`
}

// Share configures the heatmap share grid and party links.
type Share struct {
	SampleRows int    `env:"SHARE_SAMPLE_ROWS" envDefault:"5"`
	SampleCols int    `env:"SHARE_SAMPLE_COLS" envDefault:"5"`
	BaseURL    string `env:"SHARE_BASE_URL" envDefault:"https://slicetomeetyou.com"`
}

// Identity locates the persisted client identifier.
type Identity struct {
	File     string `env:"IDENTITY_FILE" envDefault:""`
	RedisKey string `env:"IDENTITY_REDIS_KEY" envDefault:"slices:user_id"`
}

// Redis is optional; when Addr is empty the file store is used.
type Redis struct {
	Addr string `env:"REDIS_ADDR" envDefault:""`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `env:"METRICS_TEXTFILE" envDefault:""`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Identity.File == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.Identity.File = filepath.Join(dir, cfg.Name, "user_id")
	}
	cfg.Backend.URL = strings.TrimSuffix(cfg.Backend.URL, "/")
	cfg.Share.BaseURL = strings.TrimSuffix(cfg.Share.BaseURL, "/")
	return cfg, cfg.Validate()
}

// Validate rejects settings the game cannot run with.
func (c *App) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL must be set")
	}
	q := c.Quiz
	if q.GridRows < 1 || q.GridCols < 1 {
		return fmt.Errorf("invalid grid %dx%d (both sides must be positive)", q.GridRows, q.GridCols)
	}
	if q.QuestionCount < 1 {
		return fmt.Errorf("invalid question count: %d", q.QuestionCount)
	}
	if q.Penalty < 0 || q.Pause < 0 {
		return fmt.Errorf("penalty and pause must not be negative")
	}
	s := c.Share
	if s.SampleRows < 1 || s.SampleCols < 1 || s.SampleRows > q.GridRows || s.SampleCols > q.GridCols {
		return fmt.Errorf("invalid share grid %dx%d for a %dx%d heatmap", s.SampleRows, s.SampleCols, q.GridRows, q.GridCols)
	}
	return nil
}
