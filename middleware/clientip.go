package middleware

import (
	"net"
	"net/http"

	scmsauth "github.com/MrEthical07/scmsauth"
)

// ClientIP attaches the request's remote host to the context so the
// authority can throttle by IP and record it in audit events. Forwarding
// headers are ignored.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(scmsauth.WithClientIP(r.Context(), ip)))
	})
}
