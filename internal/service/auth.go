package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/events"
	"github.com/Skotchmaster/minishop/internal/hash"
	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/models"
	"github.com/Skotchmaster/minishop/internal/repo"
	"github.com/Skotchmaster/minishop/internal/session"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgUnauthorized       = "unauthorized"
)

// dummyHash is compared against when the user does not exist so that unknown
// usernames cost as much as wrong passwords.
var dummyHash = sync.OnceValue(func() *string {
	h, err := hash.HashPassword("not-a-real-password")
	if err != nil {
		return nil
	}
	return &h
})

type AuthService struct {
	Repo      *repo.GormRepo
	Sessions  *session.Manager
	Publisher events.Publisher
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	if len(username) > 80 {
		return nil, apperr.Validation("username is too long")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal(err)
	}

	user := &models.User{Username: username, Password: &pwHash}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, apperr.Conflict("user already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Publisher, events.TopicUser, fmt.Sprint(user.ID), events.Event{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Login checks the credentials and opens a session. An unknown user and a
// wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *session.Issued, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			hash.CheckPassword(dummyHash(), password)
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, nil, apperr.Internal(err)
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch", "user_id", user.ID)
		return nil, nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	issued, err := s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue session", "error", err)
		return nil, nil, apperr.Internal(err)
	}

	publish(ctx, s.Publisher, events.TopicUser, fmt.Sprint(user.ID), events.Event{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})
	return user, issued, nil
}

// Authenticate resolves a session token to the id of its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	sess, err := s.Sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return 0, apperr.Wrap(apperr.KindUnauthorized, msgUnauthorized, err)
		}
		return 0, apperr.Internal(err)
	}
	return sess.UserID, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.Sessions.End(ctx, token); err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return apperr.Wrap(apperr.KindUnauthorized, msgUnauthorized, err)
		}
		return apperr.Internal(err)
	}
	return nil
}
