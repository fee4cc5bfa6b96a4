// Package session issues, resolves and ends login sessions.
//
// A session is a server-side record (see Store) plus a signed HS256 token
// carried in an HttpOnly cookie. The token's jti names the record and its
// subject names the user; both have to agree with the record for the session
// to resolve.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/models"
)

// PurgeInterval is how often RunJanitor sweeps dead sessions out of the store.
const PurgeInterval = 10 * time.Minute

var ErrInvalidSession = errors.New("invalid session")

type Options struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

type Issued struct {
	Token     string
	ExpiresAt time.Time
	Session   *models.Session
}

func NewManager(store Store, opts Options) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is nil")
	}
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		store:      store,
		secret:     opts.Secret,
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		now:        opts.Now,
	}, nil
}

// RandomSecret returns a fresh 32-byte signing key. Tokens signed with it die
// with the process.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *Manager) Issue(ctx context.Context, userID uint) (*Issued, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: exp,
	}

	token, err := signToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &Issued{Token: token, ExpiresAt: exp, Session: sess}, nil
}

// Resolve returns the live session behind token. Any verification failure is
// reported as ErrInvalidSession; store failures are returned as is.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims, err := parseToken(token, m.secret, m.now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if sess.Revoked || !m.now().Before(sess.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	if claims.Subject != strconv.FormatUint(uint64(sess.UserID), 10) {
		return nil, ErrInvalidSession
	}

	return sess, nil
}

func (m *Manager) End(ctx context.Context, token string) error {
	sess, err := m.Resolve(ctx, token)
	if err != nil {
		return err
	}
	if err := m.store.Revoke(ctx, sess.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	return nil
}

// Purge removes expired and revoked records from the store.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.store.Purge(ctx, m.now())
}

// RunJanitor purges the store every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, every time.Duration) {
	l := logging.FromContext(ctx).With("component", "session_janitor")

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := m.Purge(ctx)
			if err != nil {
				l.Warn("session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Debug("session_purge", "removed", n)
			}
		}
	}
}
