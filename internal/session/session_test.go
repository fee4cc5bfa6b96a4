package session_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/minishop/internal/db/dbtest"
	"github.com/Skotchmaster/minishop/internal/session"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func stores(t *testing.T) map[string]session.Store {
	return map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"gorm":   &session.GormStore{DB: dbtest.New(t)},
	}
}

func newManager(t *testing.T, store session.Store, clk *clock) *session.Manager {
	t.Helper()
	m, err := session.NewManager(store, session.Options{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		CookieName: "session",
		Now:        clk.Now,
	})
	require.NoError(t, err)
	return m
}

func TestIssueResolveEnd(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := &clock{t: time.Now()}
			m := newManager(t, store, clk)

			issued, err := m.Issue(ctx, 7)
			require.NoError(t, err)
			require.NotEmpty(t, issued.Token)

			sess, err := m.Resolve(ctx, issued.Token)
			require.NoError(t, err)
			assert.Equal(t, uint(7), sess.UserID)

			require.NoError(t, m.End(ctx, issued.Token))

			_, err = m.Resolve(ctx, issued.Token)
			require.ErrorIs(t, err, session.ErrInvalidSession)

			require.ErrorIs(t, m.End(ctx, issued.Token), session.ErrInvalidSession)
		})
	}
}

func TestResolve_Expired(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := &clock{t: time.Now()}
			m := newManager(t, store, clk)

			issued, err := m.Issue(ctx, 1)
			require.NoError(t, err)

			clk.t = clk.t.Add(2 * time.Hour)
			_, err = m.Resolve(ctx, issued.Token)
			require.ErrorIs(t, err, session.ErrInvalidSession)
		})
	}
}

func TestPurge_DropsExpiredAndRevoked(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := &clock{t: time.Now()}
			m := newManager(t, store, clk)

			const stale = 50
			var tokens []string
			for i := range stale {
				issued, err := m.Issue(ctx, uint(i+1))
				require.NoError(t, err)
				tokens = append(tokens, issued.Token)
			}

			clk.t = clk.t.Add(2 * time.Hour)
			live, err := m.Issue(ctx, 99)
			require.NoError(t, err)
			revoked, err := m.Issue(ctx, 100)
			require.NoError(t, err)
			require.NoError(t, m.End(ctx, revoked.Token))

			n, err := m.Purge(ctx)
			require.NoError(t, err)
			if name == "memory" {
				// End already deleted the revoked record.
				assert.EqualValues(t, stale, n)
			} else {
				assert.EqualValues(t, stale+1, n)
			}

			_, err = store.Get(ctx, live.Session.ID)
			require.NoError(t, err)
			for _, tok := range tokens[:3] {
				_, err := m.Resolve(ctx, tok)
				require.ErrorIs(t, err, session.ErrInvalidSession)
			}

			n, err = m.Purge(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestRunJanitor_StopsWithContext(t *testing.T) {
	clk := &clock{t: time.Now()}
	m := newManager(t, session.NewMemoryStore(), clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestResolve_ForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	clk := &clock{t: time.Now()}
	m := newManager(t, store, clk)

	issued, err := m.Issue(ctx, 1)
	require.NoError(t, err)

	other, err := session.NewManager(store, session.Options{Secret: []byte("other-secret"), Now: clk.Now})
	require.NoError(t, err)

	_, err = other.Resolve(ctx, issued.Token)
	require.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestResolve_RejectsNoneAlg(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Now()}
	m := newManager(t, session.NewMemoryStore(), clk)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(clk.t.Add(time.Hour)),
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, tok)
	require.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestResolve_UnknownSession(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Now()}
	issuer := newManager(t, session.NewMemoryStore(), clk)
	resolver := newManager(t, session.NewMemoryStore(), clk)

	issued, err := issuer.Issue(ctx, 3)
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, issued.Token)
	require.ErrorIs(t, err, session.ErrInvalidSession)

	_, err = resolver.Resolve(ctx, "")
	require.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestCookies(t *testing.T) {
	clk := &clock{t: time.Now()}
	m := newManager(t, session.NewMemoryStore(), clk)

	ck := m.Cookie("tok", clk.t.Add(time.Hour))
	assert.Equal(t, "session", ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	expired := m.ExpiredCookie()
	assert.Equal(t, -1, expired.MaxAge)
	assert.Empty(t, expired.Value)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := session.NewManager(session.NewMemoryStore(), session.Options{})
	require.Error(t, err)

	secret, err := session.RandomSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}
