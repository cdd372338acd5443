package middleware

import (
	"context"
	"net/http"

	scmsauth "github.com/MrEthical07/scmsauth"
)

type sessionContextKey struct{}

// SessionFromContext returns the session snapshot stored by RequireSession.
func SessionFromContext(ctx context.Context) (*scmsauth.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*scmsauth.Session)
	return s, ok
}

// RequireSession admits requests only while the authority holds a session.
// Anonymous requests are redirected to loginPath, or rejected with 401 when
// loginPath is empty.
func RequireSession(authority *scmsauth.Authority, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := authority.Current()
			if !ok {
				if loginPath != "" {
					http.Redirect(w, r, loginPath, http.StatusFound)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
