package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the visitor session id
const SessionCookie = "sid"

const sessionMaxAge = 30 * 24 * 60 * 60

type sessionKey struct{}

// Session makes sure every request has a session id, issuing a new cookie
// when the request has none or an unparsable one
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}

// WithSession returns a context carrying session id
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id, or "" outside the Session middleware
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
