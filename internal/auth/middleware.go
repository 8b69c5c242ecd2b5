package auth

import (
	"context"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "civicadmin_user"

func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(userContextKey).(*SessionUser)
	return u, ok
}

// Middleware is the edge gate: it decodes the session cookie, consults the
// policy table and either forwards the request with the session user in its
// context or answers with a redirect. A missing, tampered or expired cookie
// is one and the same "no session" outcome.
func Middleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload *SessionPayload
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				payload = codec.Verify(cookie.Value)
			}
			if payload == nil {
				d := DecideUnauthenticated(r.URL.Path)
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			}
			d := Decide(payload.User.Role, r.URL.Path)
			if d.Verdict != Allow {
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			}
			ctx := WithUser(r.Context(), &payload.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
