package middleware

import (
	"net/http"

	scmsauth "github.com/MrEthical07/scmsauth"
)

// RequireResource admits requests whose session role may open resource.
// Anonymous requests get 401 and denied roles get 403. Denials are counted
// and audited by the authority.
func RequireResource(authority *scmsauth.Authority, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authority.IsAuthenticated() {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := authority.Authorize(r.Context(), resource); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
