package application

import (
	"context"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

type sessionKey struct{}

// ContextWithSession returns a copy of ctx carrying the authenticated session.
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored by ContextWithSession, or nil
// when the request is unauthenticated.
func SessionFromContext(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionKey{}).(*model.Session)
	return session
}
