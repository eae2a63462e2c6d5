package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	"github.com/recordshopapp/recordshop-server/internal/service"
)

// sessionCookieName carries the opaque session ID between requests.
const sessionCookieName = "recordshop_session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the resolved session.
const sessionKey ctxKey = "session"

// sessionFromContext returns the session resolved for the current request,
// or nil when the request arrived without a live session.
func sessionFromContext(ctx context.Context) *domain.Session {
	if sess, ok := ctx.Value(sessionKey).(*domain.Session); ok {
		return sess
	}
	return nil
}

// setSession stores the resolved session in context.
func setSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionMiddleware resolves the session cookie into a session value on the
// request context. Missing, unknown or expired sessions simply leave the
// request signed out; handlers that need identity reject via requireAccount.
func sessionMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := auth.ResolveSession(r.Context(), cookie.Value)
			if err != nil || sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			auth.TouchSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(setSession(r.Context(), sess)))
		})
	}
}

// requireAccount resolves the account behind a request. Both a live session
// and a matching bearer token are required; a failure of either yields the
// same 401 so callers cannot probe which half was wrong.
func (s *Server) requireAccount(ctx context.Context, authHeader string) (*domain.Account, error) {
	var bearer string
	if strings.HasPrefix(authHeader, "Bearer ") {
		bearer = authHeader[7:]
	}

	return s.services.Auth.Authenticate(ctx, sessionFromContext(ctx), bearer)
}

// newSessionCookie builds the cookie that carries a freshly started session.
func newSessionCookie(sess *domain.Session) http.Cookie {
	return http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie builds a cookie that clears the session on the client.
func expiredSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
