// Package middleware guards CLI commands that need a logged-in user.
package middleware

import (
	"context"
	"errors"
	"fmt"

	"stockcontrol/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("admin role required")
)

// TokenValidator turns a stored session token back into a session.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.Session, error)
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session stored by AuthRequired, if any.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}

// AuthRequired is a cobra PreRunE that loads the saved token, validates it
// and puts the session on the command context.
func AuthRequired(store *SessionStore, validator TokenValidator) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		tokenString, err := store.Load()
		if err != nil {
			return err
		}

		session, err := validator.ValidateToken(tokenString)
		if err != nil {
			log.Debug().Err(err).Str("command", cmd.CommandPath()).Msg("stored session rejected")
			return fmt.Errorf("%w: session expired or invalid, run login again", ErrNotLoggedIn)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(WithSession(ctx, session))
		return nil
	}
}

// AdminRequired runs AuthRequired and then rejects non-admin sessions.
func AdminRequired(store *SessionStore, validator TokenValidator) func(cmd *cobra.Command, args []string) error {
	authRequired := AuthRequired(store, validator)
	return func(cmd *cobra.Command, args []string) error {
		if err := authRequired(cmd, args); err != nil {
			return err
		}
		session, _ := SessionFrom(cmd.Context())
		if !session.IsAdmin() {
			log.Warn().Str("username", session.Username).Str("command", cmd.CommandPath()).Msg("admin command refused")
			return ErrForbidden
		}
		return nil
	}
}
