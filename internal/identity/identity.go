package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by a Store that holds no identifier yet.
var ErrNotFound = errors.New("identity: no stored user id")

// Store persists the client identifier.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, id string) error
}

// Resolve returns the stored user id, creating and persisting a random v4 UUID
// the first time. A stored value that is not a UUID is replaced.
func Resolve(ctx context.Context, store Store, logger zerolog.Logger) (string, error) {
	logger = logger.With().Str("component", "identity").Logger()

	id, err := store.Load(ctx)
	switch {
	case err == nil:
		if _, perr := uuid.Parse(id); perr == nil {
			return id, nil
		}
		logger.Warn().Str("stored", id).Msg("stored user id is not a uuid, replacing")
	case errors.Is(err, ErrNotFound):
	default:
		return "", fmt.Errorf("load user id: %w", err)
	}

	id = uuid.NewString()
	if err := store.Save(ctx, id); err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	logger.Info().Str("user_id", id).Msg("created user id")
	return id, nil
}
