package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/slicetomeetyou/internal/backend"
	"github.com/gokatarajesh/slicetomeetyou/internal/config"
	"github.com/gokatarajesh/slicetomeetyou/internal/identity"
	"github.com/gokatarajesh/slicetomeetyou/internal/logging"
	"github.com/gokatarajesh/slicetomeetyou/internal/metrics"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
)

// Streams are the terminal the commands talk to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Application aggregates shared infrastructure (backend client, identity
// store, metrics).
type Application struct {
	cfg     *config.App
	logger  zerolog.Logger
	streams Streams

	backend  *backend.Client
	metrics  *metrics.Metrics
	identity identity.Store
	redis    *redis.Client
}

// New bootstraps the logger, metrics, identity store and backend client.
func New(ctx context.Context, cfg *config.App, streams Streams) (*Application, error) {
	logger := logging.NewWithWriter(streams.Err, cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Debug().Str("backend", cfg.Backend.URL).Msg("starting application bootstrap")

	m := metrics.New()

	var (
		store       identity.Store
		redisClient *redis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = identity.NewRedisStore(redisClient, cfg.Identity.RedisKey)
		logger.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis identity store")
	} else {
		store = identity.NewFileStore(cfg.Identity.File)
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.HTTPTimeout,
	}, nil, m, logger)

	return &Application{
		cfg:      cfg,
		logger:   logger,
		streams:  streams,
		backend:  client,
		metrics:  m,
		identity: store,
		redis:    redisClient,
	}, nil
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.App {
	return a.cfg
}

// UserID resolves the persisted client identifier.
func (a *Application) UserID(ctx context.Context) (string, error) {
	return identity.Resolve(ctx, a.identity, a.logger)
}

// QuizConfig turns the quiz settings into a session config.
func (a *Application) QuizConfig() quiz.Config {
	q := a.cfg.Quiz
	return quiz.Config{
		Rows:          q.GridRows,
		Cols:          q.GridCols,
		QuestionCount: q.QuestionCount,
		Penalty:       q.Penalty,
		Pause:         q.Pause,
	}
}

// Close flushes metrics and releases connections.
func (a *Application) Close() error {
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Execute runs the command tree with args and closes the application.
func (a *Application) Execute(ctx context.Context, args []string) error {
	ctx = logging.IntoContext(ctx, a.logger)
	cmd := NewRootCmd(a)
	cmd.SetArgs(args)
	runErr := cmd.ExecuteContext(ctx)
	if err := a.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("shutdown error")
	}
	return runErr
}
