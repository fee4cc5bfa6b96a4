package session

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/minishop/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store keeps server-side session records keyed by session id.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string) error
	// Purge drops every record that is revoked or expired at now and reports
	// how many went.
	Purge(ctx context.Context, now time.Time) (int64, error)
}
